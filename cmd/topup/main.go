// Command topup is an operator tool for entitlements: set a user's plan,
// grant a top-up credit lot, or inspect a user's lots and balance.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"engmate/internal/adapter/repo"
	"engmate/internal/domain"
	"engmate/internal/infra"
	"engmate/internal/usage"
)

func main() {
	var (
		idFlag    string
		emailFlag string
		planFlag  string
		grantFlag int
		priceFlag string
		listFlag  bool
	)

	flag.StringVar(&idFlag, "id", "", "user ID to act on (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to act on")
	flag.StringVar(&planFlag, "plan", "", "plan to assign (free, basic, premium, pro)")
	flag.IntVar(&grantFlag, "grant", 0, "top-up credit units to grant")
	flag.StringVar(&priceFlag, "price", "0", "purchase price recorded with a granted lot")
	flag.BoolVar(&listFlag, "list", false, "list the user's top-up lots and balance")
	flag.Parse()

	_ = godotenv.Load()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	if planFlag == "" && grantFlag <= 0 && !listFlag {
		exitWithError(errors.New("nothing to do: pass -plan, -grant or -list"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "topup").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	users := repo.NewUserRepository(runner)
	topups := repo.NewTopupRepository(runner)
	payments := repo.NewPaymentRepository(runner)
	ledger := usage.NewLedger(topups, logger)

	user, err := loadUser(ctx, users, userID, email)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load user: %w", err))
	}

	if planFlag != "" {
		plan := domain.ParsePlan(planFlag)
		if string(plan) != strings.ToLower(strings.TrimSpace(planFlag)) {
			exitWithError(fmt.Errorf("unsupported plan %q", planFlag))
		}
		user, err = users.UpdatePlan(ctx, user.ID, plan)
		if err != nil {
			exitWithError(fmt.Errorf("failed to update plan: %w", err))
		}
		fmt.Printf("user %s (%s) moved to plan %s\n", user.ID, user.Email, user.Plan)
	}

	if grantFlag > 0 {
		lot, err := ledger.IssueLot(ctx, user, grantFlag)
		if err != nil {
			exitWithError(fmt.Errorf("failed to grant lot: %w", err))
		}
		price, err := decimal.NewFromString(strings.TrimSpace(priceFlag))
		if err != nil {
			exitWithError(fmt.Errorf("invalid -price: %w", err))
		}
		payment := &domain.Payment{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Kind:      domain.PaymentKindTopup,
			Units:     grantFlag,
			Price:     price,
			CreatedAt: lot.PurchasedAt,
		}
		if err := payments.Insert(ctx, payment); err != nil {
			fmt.Fprintf(os.Stderr, "warning: payment record not written: %v\n", err)
		}
		fmt.Printf("granted lot %s: %d units, expires %s\n", lot.ID, lot.Amount, lot.ExpiresAt.Format(time.RFC3339))
	}

	if listFlag {
		lots, err := topups.ListAll(ctx, user.ID)
		if err != nil {
			exitWithError(fmt.Errorf("failed to list lots: %w", err))
		}
		fmt.Printf("balance: %d\n", ledger.Balance(ctx, user.ID))
		for _, lot := range lots {
			state := "live"
			if !lot.Live(time.Now()) {
				state = "expired"
			}
			fmt.Printf("lot %s: %d/%d used, purchased %s, expires %s (%s)\n",
				lot.ID, lot.UsedCount, lot.Amount,
				lot.PurchasedAt.Format("2006-01-02"), lot.ExpiresAt.Format("2006-01-02"), state)
		}
	}
}

func loadUser(ctx context.Context, users domain.UserRepository, id, email string) (*domain.User, error) {
	if id != "" {
		return users.GetByID(ctx, id)
	}
	return users.GetByEmail(ctx, email)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
