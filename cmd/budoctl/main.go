package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"budo/internal/adapters/storage"
	accountStore "budo/internal/adapters/storage/account"
	beltStore "budo/internal/adapters/storage/belt"
	dojoStore "budo/internal/adapters/storage/dojo"
	paymentStore "budo/internal/adapters/storage/payment"
	studentStore "budo/internal/adapters/storage/student"
	"budo/internal/application/orchestrators"
	"budo/internal/domain/account"
)

var dbPath string

func main() {
	root := &cobra.Command{
		Use:   "budoctl",
		Short: "Administrative tasks for a budo database",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "budo.db", "path to the SQLite database")

	root.AddCommand(migrateCmd(), createAccountCmd(), seedDemoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB opens the database and applies the schema.
func openDB() (*sql.DB, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := storage.InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Println("schema up to date:", dbPath)
			return nil
		},
	}
}

func createAccountCmd() *cobra.Command {
	var email, password, role, dojoName string
	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Create an account and its dojo",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			deps := orchestrators.CreateAccountDeps{
				AccountStore: accountStore.NewSQLiteStore(db),
				DojoStore:    dojoStore.NewSQLiteStore(db),
			}
			result, err := orchestrators.ExecuteCreateAccount(context.Background(), orchestrators.CreateAccountInput{
				Email:    email,
				Password: password,
				Role:     role,
				DojoName: dojoName,
			}, deps)
			if err != nil {
				return err
			}
			fmt.Printf("account %s created (dojo %s)\n", result.AccountID, result.DojoID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	cmd.Flags().StringVar(&role, "role", account.RoleAdmin, "account role (admin or professor)")
	cmd.Flags().StringVar(&dojoName, "dojo", "", "dojo name (required)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("dojo")
	return cmd
}

func seedDemoCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Create a demo dojo with belts, students and a tuition ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := context.Background()
			accounts := accountStore.NewSQLiteStore(db)
			dojos := dojoStore.NewSQLiteStore(db)
			students := studentStore.NewSQLiteStore(db)
			belts := beltStore.NewSQLiteStore(db)
			payments := paymentStore.NewSQLiteStore(db)

			result, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
				Email:    email,
				Password: password,
				Role:     account.RoleAdmin,
				DojoName: "Academia Demonstração",
			}, orchestrators.CreateAccountDeps{AccountStore: accounts, DojoStore: dojos})
			if err != nil {
				return err
			}

			beltDeps := orchestrators.BeltDeps{BeltStore: belts}
			for _, color := range []string{"branca", "azul", "roxa", "marrom", "preta"} {
				if _, err := orchestrators.ExecuteCreateBelt(ctx, result.DojoID, color, beltDeps); err != nil {
					return err
				}
			}

			enrollDeps := orchestrators.EnrollStudentDeps{
				StudentStore: students,
				PaymentStore: payments,
				Now:          time.Now,
			}
			demo := []orchestrators.EnrollStudentInput{
				{Name: "Akira Tanaka", Belt: "AZUL", CPF: "111.222.333-44", City: "São Paulo", Tuition: "150,00"},
				{Name: "Bruno Lima", Belt: "BRANCA", CPF: "222.333.444-55", City: "Campinas", Tuition: "120,00"},
				{Name: "Carla Souza", Belt: "ROXA", CPF: "333.444.555-66", City: "Santos", Tuition: "180,00"},
			}
			for _, input := range demo {
				input.DojoID = result.DojoID
				r, err := orchestrators.ExecuteEnrollStudent(ctx, input, enrollDeps)
				if err != nil {
					return err
				}
				if r.ScheduleErr != nil {
					return fmt.Errorf("schedule for %s: %w", input.Name, r.ScheduleErr)
				}
			}

			fmt.Printf("demo dojo seeded for %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "demo@budo.example.com", "demo account email")
	cmd.Flags().StringVar(&password, "password", "demo-password", "demo account password")
	return cmd
}
