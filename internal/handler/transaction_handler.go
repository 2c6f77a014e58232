package handler

import (
	"strconv"

	"bankcore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Amount positivity lives here, at the input boundary: the ledger trusts
// its caller on amount signs, so every money handler must reject
// non-positive amounts before calling down.

type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// Deposit credits the authenticated account.
// POST /api/v1/transactions/deposit
func (h *Handler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		response.ParamError(c, "amount must be greater than zero")
		return
	}

	txn, err := h.ledgerService.Deposit(c.Request.Context(), AuthedAccountNumber(c), req.Amount, req.Description)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"transaction_id": txn.ID,
		"type":           txn.Type,
		"amount":         txn.Amount,
		"balance":        txn.BalanceAfter,
	})
}

type WithdrawRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	AccessCode  string          `json:"access_code" binding:"required,len=4,numeric"`
	Description string          `json:"description"`
}

// Withdraw debits the authenticated account. The access code is
// re-verified even on a valid session.
// POST /api/v1/transactions/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		response.ParamError(c, "amount must be greater than zero")
		return
	}

	accountNumber := AuthedAccountNumber(c)
	if err := h.verifyAccessCode(c, accountNumber, req.AccessCode); err != nil {
		return
	}

	txn, err := h.ledgerService.Withdraw(c.Request.Context(), accountNumber, req.Amount, req.Description)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"transaction_id": txn.ID,
		"type":           txn.Type,
		"amount":         txn.Amount,
		"balance":        txn.BalanceAfter,
	})
}

type TransferRequest struct {
	ToAccountNumber string          `json:"to_account_number" binding:"required,len=12"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	AccessCode      string          `json:"access_code" binding:"required,len=4,numeric"`
	Description     string          `json:"description"`
}

// Transfer moves funds from the authenticated account to another.
// POST /api/v1/transactions/transfer
func (h *Handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		response.ParamError(c, "amount must be greater than zero")
		return
	}

	accountNumber := AuthedAccountNumber(c)
	if err := h.verifyAccessCode(c, accountNumber, req.AccessCode); err != nil {
		return
	}

	txn, err := h.transferService.Transfer(c.Request.Context(), accountNumber, req.ToAccountNumber, req.Amount, req.Description)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"transaction_id": txn.ID,
		"type":           txn.Type,
		"amount":         txn.Amount,
		"balance":        txn.BalanceAfter,
	})
}

// History lists the authenticated account's transactions, optionally
// narrowed by type.
// GET /api/v1/transactions?type=Deposit&page=1&page_size=10
func (h *Handler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	transactions, total, err := h.ledgerService.History(
		c.Request.Context(),
		AuthedAccountNumber(c),
		c.Query("type"),
		page,
		pageSize,
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      transactions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// verifyAccessCode re-checks the access code and writes the error
// response itself when verification fails.
func (h *Handler) verifyAccessCode(c *gin.Context, accountNumber, accessCode string) error {
	account, err := h.accountService.GetByNumber(c.Request.Context(), accountNumber)
	if err != nil {
		writeServiceError(c, err)
		return err
	}
	if err := h.authService.VerifyAccessCode(account, accessCode); err != nil {
		writeServiceError(c, err)
		return err
	}
	return nil
}
