package core

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// NewRouter constructs the Gin engine with routes wired. The handlers are
// deliberately thin: gather input, run the pre-flight validators, invoke
// one BankingAPI operation, and render its Result. Balance arithmetic and
// transfer verdicts stay on the backend.
func NewRouter(cfg Config, store *sessions.CookieStore, api *BankingAPI, metrics *MetricsService) *gin.Engine {
	startedAt := time.Now()
	r := gin.Default()

	// Global middleware: origin/CORS -> session -> CSRF
	r.Use(OriginRefererMiddleware(cfg))
	r.Use(SessionMiddleware(cfg, store))
	r.Use(CSRFMiddleware(cfg, store))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", func(c *gin.Context) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			if strings.TrimSpace(req.Username) == "" || req.Password == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
				return
			}

			result := api.Login(c.Request.Context(), req.Username, req.Password)
			if !result.OK {
				respondOperational(c, result)
				return
			}

			var ident Session
			if !ident.ApplyLogin(req.Username, result) {
				msg := result.Message()
				if msg == "" {
					msg = "invalid credentials"
				}
				respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", msg)
				return
			}

			sess, err := store.Get(c.Request, sessionName)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "session error")
				return
			}
			storeSessionInCookie(sess, ident)
			applySessionOptions(cfg, sess)
			if err := sess.Save(c.Request, c.Writer); err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to set session")
				return
			}

			c.JSON(http.StatusOK, gin.H{"user": gin.H{
				"user_id":  ident.UserID,
				"username": ident.Username,
				"role":     ident.Role,
			}})
		})

		v1.POST("/auth/register", func(c *gin.Context) {
			var req struct {
				Username        string `json:"username"`
				Password        string `json:"password"`
				ConfirmPassword string `json:"confirm_password"`
				Email           string `json:"email"`
				FullName        string `json:"full_name"`
				Phone           string `json:"phone"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			for _, v := range []Validation{
				ValidateUsername(req.Username),
				ValidatePassword(req.Password),
				ValidateEmail(req.Email),
				ValidateFullName(req.FullName),
			} {
				if !v.Valid {
					respondValidation(c, v)
					return
				}
			}
			if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Passwords do not match")
				return
			}

			respondResult(c, api.Register(c.Request.Context(), req.Username, req.Password, req.Email, req.FullName, req.Phone))
		})

		v1.POST("/auth/logout", func(c *gin.Context) {
			sessionAny, _ := c.Get("session")
			sess, _ := sessionAny.(*sessions.Session)
			if sess == nil {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "login required")
				return
			}
			anonymous := sessionFromCookie(sess)
			anonymous.Logout()
			storeSessionInCookie(sess, anonymous)
			applySessionOptions(cfg, sess)
			sess.Options.MaxAge = -1 // Must be set AFTER applySessionOptions to properly delete cookie
			if err := sess.Save(c.Request, c.Writer); err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to clear session")
				return
			}
			c.Status(http.StatusNoContent)
		})

		v1.GET("/session", func(c *gin.Context) {
			sessionAny, _ := c.Get("session")
			sess, _ := sessionAny.(*sessions.Session)
			ident := sessionFromCookie(sess)
			if !ident.Authenticated {
				c.JSON(http.StatusOK, gin.H{"authenticated": false})
				return
			}
			c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": gin.H{
				"user_id":  ident.UserID,
				"username": ident.Username,
				"role":     ident.Role,
			}})
		})

		v1.GET("/accounts", func(c *gin.Context) {
			ident, ok := requireLogin(c)
			if !ok {
				return
			}
			result := api.Accounts(c.Request.Context(), ident.Username)
			if !result.OK {
				respondOperational(c, result)
				return
			}
			if !result.BusinessOK() {
				respondError(c, http.StatusBadRequest, string(ErrBusiness), result.Message())
				return
			}
			accounts := AccountsFromResult(result)
			c.JSON(http.StatusOK, gin.H{
				"accounts":      accounts,
				"total_balance": FormatCents(TotalBalanceCents(accounts)),
			})
		})

		v1.POST("/accounts", func(c *gin.Context) {
			ident, ok := requireLogin(c)
			if !ok {
				return
			}
			var req struct {
				AccountType    string  `json:"account_type"`
				InitialBalance float64 `json:"initial_balance"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			req.AccountType = strings.ToUpper(strings.TrimSpace(req.AccountType))
			if !isSupportedAccountType(req.AccountType) {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "unsupported account type")
				return
			}
			if v := ValidateInitialBalance(req.InitialBalance); !v.Valid {
				respondValidation(c, v)
				return
			}

			respondResult(c, api.CreateAccount(c.Request.Context(), ident.Username, req.AccountType, req.InitialBalance))
		})

		v1.GET("/transactions", func(c *gin.Context) {
			if _, ok := requireLogin(c); !ok {
				return
			}
			accountNumber := strings.TrimSpace(c.Query("account_number"))
			if accountNumber == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "account_number is required")
				return
			}
			result := api.Transactions(c.Request.Context(), accountNumber)
			if !result.OK {
				respondOperational(c, result)
				return
			}
			if !result.BusinessOK() {
				respondError(c, http.StatusBadRequest, string(ErrBusiness), result.Message())
				return
			}
			c.JSON(http.StatusOK, gin.H{"transactions": TransactionsFromResult(result)})
		})

		v1.GET("/balance", func(c *gin.Context) {
			if _, ok := requireLogin(c); !ok {
				return
			}
			accountNumber := strings.TrimSpace(c.Query("account_number"))
			if accountNumber == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "account_number is required")
				return
			}
			respondResult(c, api.Balance(c.Request.Context(), accountNumber))
		})

		v1.POST("/transactions/deposit", func(c *gin.Context) {
			if _, ok := requireLogin(c); !ok {
				return
			}
			var req struct {
				AccountNumber string  `json:"account_number"`
				Amount        float64 `json:"amount"`
				Description   string  `json:"description"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			if strings.TrimSpace(req.AccountNumber) == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "account_number is required")
				return
			}
			if v := ValidateAmount(req.Amount); !v.Valid {
				respondValidation(c, v)
				return
			}
			if req.Description == "" {
				req.Description = "Deposit"
			}

			respondResult(c, api.Deposit(c.Request.Context(), req.AccountNumber, req.Amount, req.Description))
		})

		v1.POST("/transactions/withdraw", func(c *gin.Context) {
			if _, ok := requireLogin(c); !ok {
				return
			}
			var req struct {
				AccountNumber string  `json:"account_number"`
				Amount        float64 `json:"amount"`
				Description   string  `json:"description"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			if strings.TrimSpace(req.AccountNumber) == "" {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "account_number is required")
				return
			}
			if v := ValidateAmount(req.Amount); !v.Valid {
				respondValidation(c, v)
				return
			}
			if req.Description == "" {
				req.Description = "Withdrawal"
			}

			respondResult(c, api.Withdraw(c.Request.Context(), req.AccountNumber, req.Amount, req.Description))
		})

		v1.POST("/transactions/transfer", func(c *gin.Context) {
			if _, ok := requireLogin(c); !ok {
				return
			}
			var req struct {
				FromAccount string  `json:"from_account"`
				ToAccount   string  `json:"to_account"`
				Amount      float64 `json:"amount"`
				Description string  `json:"description"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			// Same-account rule runs before any network call.
			if v := ValidateTransfer(req.FromAccount, req.ToAccount); !v.Valid {
				respondValidation(c, v)
				return
			}
			if v := ValidateAmount(req.Amount); !v.Valid {
				respondValidation(c, v)
				return
			}
			if req.Description == "" {
				req.Description = "Internal Transfer"
			}

			respondResult(c, api.Transfer(c.Request.Context(), req.FromAccount, req.ToAccount, req.Amount, req.Description))
		})

		// Connectivity probe backing the login page's "Test Connection"
		// button; public on purpose.
		v1.GET("/backend/status", func(c *gin.Context) {
			probe := api.TestConnection(c.Request.Context())
			if probe.OK {
				c.JSON(http.StatusOK, gin.H{"connected": true})
				return
			}
			c.JSON(http.StatusOK, gin.H{"connected": false, "error": probe.Err})
		})

		admin := v1.Group("/admin")
		admin.Use(AdminOnly())
		{
			admin.GET("/metrics/overview", func(c *gin.Context) {
				ops, instances, err := metrics.Overview(c.Request.Context())
				if err != nil {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to load metrics")
					return
				}
				c.JSON(http.StatusOK, gin.H{
					"operations": ops,
					"instances":  instances,
				})
			})

			admin.GET("/system/status", func(c *gin.Context) {
				st := CollectSystemStatus(c.Request.Context(), api, metrics, startedAt)
				c.JSON(http.StatusOK, st)
			})
		}
	}

	return r
}

// requireLogin extracts the authenticated identity from the cookie session,
// rejecting the request when it is anonymous.
func requireLogin(c *gin.Context) (Session, bool) {
	sessionAny, _ := c.Get("session")
	sess, _ := sessionAny.(*sessions.Session)
	ident := sessionFromCookie(sess)
	if !ident.Authenticated {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "login required")
		return Session{}, false
	}
	return ident, true
}
