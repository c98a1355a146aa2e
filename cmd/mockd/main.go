// mockd is a local stand-in for the finance backend. It keeps everything in
// memory and implements exactly the endpoints the gateway uses, which makes
// offline scenarios easy to exercise by hand: start it, point fintrack at
// it, then kill it and watch mutations queue up.
package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ulwww/fintrack/pkg/dto"
)

type state struct {
	mu           sync.Mutex
	account      dto.AccountResponse
	categories   []dto.CategoryResponse
	transactions map[int64]dto.TransactionResponse
	nextID       int64
}

func seed() *state {
	now := dto.FormatTime(time.Now())
	return &state{
		account: dto.AccountResponse{
			ID: 1, UserID: 1, Name: "Main account",
			Balance: "1000.00", Currency: "RUB",
			CreatedAt: now, UpdatedAt: now,
		},
		categories: []dto.CategoryResponse{
			{ID: 1, Name: "Salary", Emoji: "💰", IsIncome: true},
			{ID: 2, Name: "Gifts", Emoji: "🎁", IsIncome: true},
			{ID: 3, Name: "Food", Emoji: "🍔", IsIncome: false},
			{ID: 4, Name: "Entertainment", Emoji: "🎬", IsIncome: false},
		},
		transactions: make(map[int64]dto.TransactionResponse),
		nextID:       1,
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	addr := os.Getenv("MOCKD_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	token := os.Getenv("MOCKD_TOKEN")

	s := seed()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	if token != "" {
		app.Use(func(c *fiber.Ctx) error {
			if c.Get("Authorization") != "Bearer "+token {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
			}
			return c.Next()
		})
	}

	app.Get("/accounts", s.listAccounts)
	app.Put("/accounts/:id", s.updateAccount)
	app.Get("/categories", s.listCategories)
	app.Get("/categories/type/:isIncome", s.listCategoriesByType)
	app.Get("/transactions/account/:id/period", s.listTransactions)
	app.Post("/transactions", s.createTransaction)
	app.Put("/transactions/:id", s.updateTransaction)
	app.Delete("/transactions/:id", s.deleteTransaction)

	logger.Info("mock backend listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func (s *state) listAccounts(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON([]dto.AccountResponse{s.account})
}

func (s *state) updateAccount(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	var req dto.AccountUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := dto.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.account.ID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account not found"})
	}
	s.account.Name = req.Name
	s.account.Balance = req.Balance
	s.account.Currency = req.Currency
	s.account.UpdatedAt = dto.FormatTime(time.Now())
	return c.JSON(s.account)
}

func (s *state) listCategories(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.categories)
}

func (s *state) listCategoriesByType(c *fiber.Ctx) error {
	income := strings.EqualFold(c.Params("isIncome"), "true")
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := make([]dto.CategoryResponse, 0, len(s.categories))
	for _, cat := range s.categories {
		if cat.IsIncome == income {
			filtered = append(filtered, cat)
		}
	}
	return c.JSON(filtered)
}

// listTransactions filters by whole days, like the real backend: the client
// is expected to re-filter to its exact bound.
func (s *state) listTransactions(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}
	start, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid startDate"})
	}
	end, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid endDate"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]dto.TransactionResponse, 0)
	for _, t := range s.transactions {
		if t.AccountID != accountID {
			continue
		}
		date, err := dto.ParseTime(t.TransactionDate)
		if err != nil {
			continue
		}
		if date.Before(start) || !date.Before(end) {
			continue
		}
		result = append(result, t)
	}
	return c.JSON(result)
}

func (s *state) createTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := dto.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := dto.FormatTime(time.Now())
	t := dto.TransactionResponse{
		ID:              s.nextID,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Amount:          req.Amount,
		Comment:         req.Comment,
		TransactionDate: req.TransactionDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.nextID++
	s.transactions[t.ID] = t
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (s *state) updateTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := dto.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transaction not found"})
	}
	t.AccountID = req.AccountID
	t.CategoryID = req.CategoryID
	t.Amount = req.Amount
	t.Comment = req.Comment
	t.TransactionDate = req.TransactionDate
	t.UpdatedAt = dto.FormatTime(time.Now())
	s.transactions[id] = t
	return c.JSON(t)
}

func (s *state) deleteTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transaction not found"})
	}
	delete(s.transactions, id)
	return c.JSON(fiber.Map{})
}
