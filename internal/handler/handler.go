package handler

import (
	"errors"
	"time"

	"bankcore/internal/config"
	"bankcore/internal/model"
	"bankcore/internal/repository"
	"bankcore/internal/service"
	"bankcore/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler wires every service behind the HTTP surface.
type Handler struct {
	accountService  *service.AccountService
	authService     *service.AuthService
	ledgerService   *service.LedgerService
	transferService *service.TransferService
}

func NewHandler(store repository.Store, tokens service.TokenStore, locks service.OperationLock, cfg *config.Config) *Handler {
	topic := cfg.Kafka.Topic.TransactionCompleted
	return &Handler{
		accountService:  service.NewAccountService(store),
		authService:     service.NewAuthService(store, tokens),
		ledgerService:   service.NewLedgerService(store, topic),
		transferService: service.NewTransferService(store, locks, topic),
	}
}

// writeServiceError maps the service error taxonomy onto business codes.
// Anything unrecognized is a server error.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		response.BusinessError(c, response.CodeAccountNotFound, "account not found")
	case errors.Is(err, model.ErrAccountNotActive):
		response.BusinessError(c, response.CodeAccountNotActive, "account is not active")
	case errors.Is(err, model.ErrInsufficientBalance):
		response.BusinessError(c, response.CodeInsufficientBalance, "insufficient balance")
	case errors.Is(err, model.ErrSameAccount):
		response.BusinessError(c, response.CodeSameAccount, "cannot transfer to the same account")
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.BusinessError(c, response.CodeDuplicateEmail, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.BusinessError(c, response.CodeInvalidCredentials, "invalid account number or access code")
	default:
		response.ServerError(c, err.Error())
	}
}

// ============================================================
// Accounts
// ============================================================

// RegisterRequest creates a new account. The access code must be entered
// twice; eqfield catches typos before anything is persisted.
type RegisterRequest struct {
	FirstName         string `json:"first_name" binding:"required"`
	LastName          string `json:"last_name" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone" binding:"max=15"`
	Address           string `json:"address"`
	DateOfBirth       string `json:"date_of_birth" binding:"required"`
	AccountType       string `json:"account_type"`
	AccessCode        string `json:"access_code" binding:"required,len=4,numeric"`
	ConfirmAccessCode string `json:"confirm_access_code" binding:"required,eqfield=AccessCode"`
}

// Register creates an account and logs it straight in, mirroring the
// original registration flow.
// POST /api/v1/accounts/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		response.ParamError(c, "date_of_birth must be YYYY-MM-DD")
		return
	}
	if req.AccountType == "" {
		req.AccountType = model.AccountTypeSavings
	}

	account, err := h.accountService.Register(c.Request.Context(), service.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		DateOfBirth: dob,
		AccountType: req.AccountType,
		AccessCode:  req.AccessCode,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	token, _, err := h.authService.Login(c.Request.Context(), account.AccountNumber, req.AccessCode)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"account_number": account.AccountNumber,
		"full_name":      account.FullName(),
		"account_type":   account.AccountType,
		"token":          token,
	})
}

// GetAccount returns the authenticated account with its recent
// transactions.
// GET /api/v1/account
func (h *Handler) GetAccount(c *gin.Context) {
	accountNumber := AuthedAccountNumber(c)

	account, err := h.accountService.GetByNumber(c.Request.Context(), accountNumber)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	recent, _, err := h.ledgerService.History(c.Request.Context(), accountNumber, "", 1, 5)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"account":             account,
		"recent_transactions": recent,
	})
}

// ListAccounts searches accounts by number, name, email or phone.
// GET /api/v1/accounts?search=xxx
func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountService.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"list":  accounts,
		"total": len(accounts),
	})
}

// UpdateAccountStatusRequest is the back-office status transition.
type UpdateAccountStatusRequest struct {
	AccountNumber string `json:"account_number" binding:"required,len=12"`
	Status        string `json:"status" binding:"required"`
}

// UpdateAccountStatus transitions an account between Active, Inactive and
// Closed. Closure keeps the row and its history.
// POST /api/v1/accounts/status
func (h *Handler) UpdateAccountStatus(c *gin.Context) {
	var req UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	if err := h.accountService.UpdateStatus(c.Request.Context(), req.AccountNumber, req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			response.ParamError(c, "status must be Active, Inactive or Closed")
			return
		}
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"account_number": req.AccountNumber, "status": req.Status})
}

// ============================================================
// Auth
// ============================================================

type LoginRequest struct {
	AccountNumber string `json:"account_number" binding:"required,len=12"`
	AccessCode    string `json:"access_code" binding:"required,len=4,numeric"`
}

// Login verifies the access code and returns a session token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	token, account, err := h.authService.Login(c.Request.Context(), req.AccountNumber, req.AccessCode)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":          token,
		"account_number": account.AccountNumber,
		"full_name":      account.FullName(),
		"balance":        account.Balance,
	})
}

// Logout ends the presented session.
// POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			response.ServerError(c, err.Error())
			return
		}
	}
	response.Success(c, gin.H{"message": "logged out"})
}
