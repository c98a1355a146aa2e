// fintrack is the command line front end of the offline-first finance
// tracker: it syncs queued mutations, lists transactions for a period and
// imports/exports the transaction set as CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/ulwww/fintrack/infra"
	infrarepo "github.com/ulwww/fintrack/infra/repository"
	"github.com/ulwww/fintrack/pkg/config"
	"github.com/ulwww/fintrack/pkg/csvio"
	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/gateway"
	"github.com/ulwww/fintrack/pkg/service"
)

const dateLayout = "2006-01-02"

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func usage() string {
	return `usage: fintrack <command> [flags]

commands:
  sync                      replay queued mutations against the backend
  pending                   show mutations waiting for replay
  list [-from d] [-to d]    list transactions for a period (default: this month)
  import <file.csv>         import transactions from CSV
  export <file.csv>         export locally stored transactions to CSV
  account [-balance v] [-currency c]
                            show the current account, or update it when a
                            flag is given
  categories [-direction d] show categories (income|outcome)`
}

// app is the composition root: it owns the store/log lifecycle and hands the
// services their collaborators explicitly.
type app struct {
	accounts     *service.AccountService
	categories   *service.CategoryService
	transactions *service.TransactionService
	backup       interface {
		Pending(ctx context.Context) ([]domain.PendingOperation, error)
	}
	logger *slog.Logger
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage())
		return nil
	}

	bootstrap := setupLogger("info", "text")
	cfg, err := config.Load(bootstrap)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := infra.NewDBConnection(cfg.DB.Path, cfg.DB.Debug)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}

	api := gateway.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout, logger)
	accountStore := infrarepo.NewAccountStore(db)
	categoryStore := infrarepo.NewCategoryStore(db)
	transactionStore := infrarepo.NewTransactionStore(db)
	backupStore := infrarepo.NewBackupStore(db)

	accounts := service.NewAccountService(api, accountStore, logger)
	a := &app{
		accounts:     accounts,
		categories:   service.NewCategoryService(api, categoryStore, logger),
		transactions: service.NewTransactionService(api, transactionStore, backupStore, accounts, logger),
		backup:       backupStore,
		logger:       logger,
	}

	ctx := context.Background()
	switch cmd, rest := args[0], args[1:]; cmd {
	case "sync":
		return a.runSync(ctx)
	case "pending":
		return a.runPending(ctx)
	case "list":
		return a.runList(ctx, rest)
	case "import":
		return a.runImport(ctx, rest)
	case "export":
		return a.runExport(ctx, rest)
	case "account":
		return a.runAccount(ctx, rest)
	case "categories":
		return a.runCategories(ctx, rest)
	default:
		fmt.Println(usage())
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) runSync(ctx context.Context) error {
	if err := a.transactions.SyncPending(ctx); err != nil {
		return err
	}
	color.Green("pending operations replayed")
	return nil
}

func (a *app) runPending(ctx context.Context) error {
	pending, err := a.backup.Pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		color.Green("nothing queued")
		return nil
	}
	for _, op := range pending {
		fmt.Printf("%-8s transaction %-8d enqueued %s\n",
			op.Kind, op.TransactionID, op.EnqueuedAt.Format(time.RFC3339))
	}
	return nil
}

func (a *app) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	now := time.Now().UTC()
	defaultFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := fs.String("from", defaultFrom.Format(dateLayout), "period start (YYYY-MM-DD)")
	to := fs.String("to", now.Format(dateLayout), "period end (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := time.Parse(dateLayout, *from)
	if err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	end, err := time.Parse(dateLayout, *to)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}
	end = end.AddDate(0, 0, 1).Add(-time.Millisecond)

	txs, err := a.transactions.TransactionsForPeriod(ctx, start, end)
	stale := warnIfStale(err)
	if err != nil && !stale {
		return err
	}
	if len(txs) == 0 {
		fmt.Println("no transactions in period")
		return nil
	}
	for _, t := range txs {
		fmt.Printf("%-8d %s  %12s  category %-6d %s\n",
			t.ID, t.TransactionDate.Format(dateLayout), t.Amount.String(), t.CategoryID, t.Comment)
	}
	return nil
}

func (a *app) runImport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("import requires exactly one file argument")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	txs, err := csvio.ParseTransactions(string(data))
	if err != nil {
		return err
	}

	var queued int
	for i := range txs {
		if _, err := a.transactions.Create(ctx, &txs[i]); err != nil {
			queued++
			a.logger.Warn("import create failed, queued for replay",
				"transaction_id", txs[i].ID, "error", err)
		}
	}
	color.Green("imported %d transactions", len(txs)-queued)
	if queued > 0 {
		color.Yellow("%d transactions failed and were queued for replay", queued)
	}
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("export requires exactly one file argument")
	}
	start := time.Time{}
	end := time.Now().UTC().AddDate(100, 0, 0)
	txs, err := a.transactions.TransactionsForPeriod(ctx, start, end)
	if err != nil && !warnIfStale(err) {
		return err
	}
	if err := os.WriteFile(args[0], []byte(csvio.EncodeTransactions(txs)), 0o644); err != nil {
		return err
	}
	color.Green("exported %d transactions to %s", len(txs), args[0])
	return nil
}

func (a *app) runAccount(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("account", flag.ContinueOnError)
	balance := fs.String("balance", "", "new balance, e.g. 1500.00")
	currency := fs.String("currency", "", "new currency code, e.g. EUR")
	if err := fs.Parse(args); err != nil {
		return err
	}

	account, err := a.accounts.Current(ctx)
	if err != nil && !warnIfStale(err) {
		return err
	}

	if *balance != "" || *currency != "" {
		newBalance := account.Balance
		if *balance != "" {
			newBalance, err = decimal.NewFromString(*balance)
			if err != nil {
				return fmt.Errorf("invalid -balance: %w", err)
			}
		}
		newCurrency := account.Currency
		if *currency != "" {
			newCurrency = *currency
		}
		account, err = a.accounts.Update(ctx, newCurrency, newBalance)
		if err != nil {
			return err
		}
		color.Green("account updated")
	}

	fmt.Printf("account %d (%s)\nbalance: %s %s\n",
		account.ID, account.Name, account.Balance.String(), account.Currency)
	return nil
}

func (a *app) runCategories(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories", flag.ContinueOnError)
	direction := fs.String("direction", "", "filter by direction (income|outcome)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		categories []domain.Category
		err        error
	)
	if *direction == "" {
		categories, err = a.categories.Categories(ctx)
	} else {
		d := domain.Direction(*direction)
		if !d.Valid() {
			return fmt.Errorf("invalid direction %q", *direction)
		}
		categories, err = a.categories.ByDirection(ctx, d)
	}
	if err != nil && !warnIfStale(err) {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%-6d %c  %-20s %s\n", c.ID, c.Emoji, c.Name, c.Direction)
	}
	return nil
}

// warnIfStale reports whether err only tags stale local data; in that case
// the data is shown with a warning instead of failing the command.
func warnIfStale(err error) bool {
	var fallback *service.FallbackError
	if errors.As(err, &fallback) {
		color.Yellow("offline: showing local data (%v)", fallback.Err)
		return true
	}
	return false
}
