package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/obrapay/attendance-payroll-ledger-system/internal/events/kafka"
	interfaces "github.com/obrapay/attendance-payroll-ledger-system/internal/interfaces"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/models"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/payroll"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/storage/memory"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/storage/postgres"
)

func main() {

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	var roster interfaces.RosterStore
	var ledger interfaces.LedgerStore

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Fatal(err)
		}
		store := postgres.NewStore(db)
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatal(err)
		}
		roster, ledger = store, store
		log.Println("using postgres storage")
	} else {
		store := memory.NewStore()
		roster, ledger = store, store
		log.Println("using in-memory storage")
	}

	opts := []payroll.Option{}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		opts = append(opts, payroll.WithEventPublisher(kafka.NewPublisher(strings.Split(brokers, ","))))
		log.Println("publishing events to kafka:", brokers)
	}
	if ms := os.Getenv("SETTLE_DELAY_MS"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil {
			log.Fatal("invalid SETTLE_DELAY_MS:", ms)
		}
		opts = append(opts, payroll.WithSettleDelay(time.Duration(n)*time.Millisecond))
	}

	service := payroll.New(roster, ledger, opts...)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Registration endpoint: appends to the roster and runs the
	// retroactive sweep for attendance submitted before registration.
	http.HandleFunc("/workers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var reg payroll.Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		entry, linked, err := service.RegisterWorker(r.Context(), reg)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, payroll.ErrEmptyWorkerName) || errors.Is(err, payroll.ErrNonPositiveNightRate) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}

		response := struct {
			Message string             `json:"message"`
			Worker  models.RosterEntry `json:"worker"`
			Linked  int                `json:"linked"`
		}{
			Message: fmt.Sprintf("worker %q registered", entry.Name),
			Worker:  entry,
			Linked:  linked,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(response)
	})

	http.HandleFunc("/workers/rename", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			OldName string `json:"old_name"`
			NewName string `json:"new_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		renamed, linked, err := service.RenameWorker(r.Context(), req.OldName, req.NewName)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, payroll.ErrEmptyWorkerName) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"renamed": renamed, "linked": linked})
	})

	// Submission endpoint: new and edited form responses both land
	// here; the submission id decides whether prior entries exist.
	http.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var sub models.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		entries, err := service.ProcessSubmission(r.Context(), sub)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entries)
	})

	http.HandleFunc("/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		linked, err := service.SyncAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": fmt.Sprintf("%d records linked", linked),
			"linked":  linked,
		})
	})

	// Destructive: clears the ledger for a new pay cycle, keeps the
	// roster. Callers must opt in explicitly with ?confirm=true.
	http.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if r.URL.Query().Get("confirm") != "true" {
			http.Error(w, "reset clears the whole attendance ledger; pass confirm=true to proceed", http.StatusBadRequest)
			return
		}

		if err := service.ResetCycle(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "ledger cleared, roster preserved"})
	})

	http.HandleFunc("/roster", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		workers, err := service.GetRoster(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(workers)
	})

	http.HandleFunc("/ledgerEntries", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		entries, err := service.GetLedgerEntries(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Starting server on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}
