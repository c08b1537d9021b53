package core

import (
	"strings"
	"time"
)

const (
	Inflow  Direction = "INFLOW"
	Outflow Direction = "OUTFLOW"
)

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

const (
	Checking AccountKind = "CHECKING"
	Savings  AccountKind = "SAVINGS"
	Card     AccountKind = "CARD"
	Cash     AccountKind = "CASH"
	Other    AccountKind = "OTHER"
)

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalCancelled GoalStatus = "CANCELLED"
)

const (
	CategoryLimit  AlertType = "CATEGORY_LIMIT"
	AnomalousSpend AlertType = "ANOMALOUS_SPEND"
	MinimumBalance AlertType = "MINIMUM_BALANCE"
)

type (
	Direction   string
	Role        string
	AccountKind string
	GoalStatus  string
	AlertType   string

	// User owns accounts, categories, transactions, goals and alert rules.
	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
		Roles        []Role
		Active       bool
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// Account is a financial account at some institution. InitialBalance
	// is the balance before the first recorded transaction.
	Account struct {
		ID             int64
		OwnerID        int64
		Institution    string
		Kind           AccountKind
		Nickname       string
		Currency       string
		InitialBalance Money
		Active         bool
		DeletedAt      *time.Time
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	// Category labels transactions. Global categories have no owner and
	// are visible to every user.
	Category struct {
		ID        int64
		OwnerID   int64 // zero for global categories
		Name      string
		Direction Direction
		Global    bool
		Active    bool
	}

	// Transaction is one ledger movement. Amount is always positive; the
	// sign of the movement is carried by Direction.
	Transaction struct {
		ID          int64
		OwnerID     int64
		Description string
		Amount      Money
		Date        time.Time
		Direction   Direction
		CategoryID  int64
		AccountID   int64 // zero when not tied to an account
		Active      bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Goal is a savings target.
	Goal struct {
		ID         int64
		OwnerID    int64
		Title      string
		Target     Money
		TargetDate time.Time
		CategoryID int64 // optional
		Status     GoalStatus
		Active     bool
	}

	// AlertRule is a tagged variant over three alert types. Which optional
	// fields are required depends on Type; see the alerts package.
	AlertRule struct {
		ID          int64
		OwnerID     int64
		Name        string
		Type        AlertType
		CategoryID  int64  // CATEGORY_LIMIT, optionally ANOMALOUS_SPEND
		AccountID   int64  // MINIMUM_BALANCE
		Threshold   *Money // CATEGORY_LIMIT, MINIMUM_BALANCE
		WindowDays  int    // ANOMALOUS_SPEND, optionally CATEGORY_LIMIT
		Active      bool
		NotifyEmail bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// DateRange is an inclusive [From, To] filter. A zero bound is open.
	DateRange struct {
		From time.Time
		To   time.Time
	}
)

// Range builds an inclusive range over whole days.
func Range(from, to time.Time) DateRange {
	return DateRange{From: from, To: to}
}

// LastDays returns the inclusive range of n days ending at asOf.
func LastDays(asOf time.Time, n int) DateRange {
	day := asOf.Truncate(24 * time.Hour)
	return DateRange{From: day.AddDate(0, 0, -(n - 1)), To: day}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) DateRange {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: first, To: first.AddDate(0, 1, -1)}
}

func (d Direction) Valid() bool {
	return d == Inflow || d == Outflow
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// IsAdmin is a convenience for HasRole(RoleAdmin).
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

func (u *User) Validate() error {
	var verr ValidationError
	if strings.TrimSpace(u.Name) == "" {
		verr.Add("name", "required")
	}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		verr.Add("email", "required")
	} else if !strings.Contains(email, "@") {
		verr.Add("email", "invalid")
	}
	if len(u.Roles) == 0 {
		verr.Add("roles", "required")
	}
	for _, r := range u.Roles {
		if r != RoleUser && r != RoleAdmin {
			verr.Addf("roles", "unknown role %q", string(r))
		}
	}
	return verr.Err()
}

func (a *Account) Validate() error {
	var verr ValidationError
	if strings.TrimSpace(a.Institution) == "" {
		verr.Add("institution", "required")
	}
	switch a.Kind {
	case Checking, Savings, Card, Cash, Other:
	default:
		verr.Add("kind", "invalid account kind")
	}
	if len(a.Currency) != 3 {
		verr.Add("currency", "must be a 3-letter code")
	}
	return verr.Err()
}

func (c *Category) Validate() error {
	var verr ValidationError
	if strings.TrimSpace(c.Name) == "" {
		verr.Add("name", "required")
	}
	if len(c.Name) > 100 {
		verr.Add("name", "too long (max 100 characters)")
	}
	if !c.Direction.Valid() {
		verr.Add("direction", "must be INFLOW or OUTFLOW")
	}
	if c.Global && c.OwnerID != 0 {
		verr.Add("ownerId", "global categories have no owner")
	}
	return verr.Err()
}

func (t *Transaction) Validate() error {
	var verr ValidationError
	if strings.TrimSpace(t.Description) == "" {
		verr.Add("description", "required")
	}
	if len(t.Description) > 200 {
		verr.Add("description", "too long (max 200 characters)")
	}
	if t.Amount.Cents <= 0 {
		verr.Add("amount", "must be positive")
	}
	if t.Date.IsZero() {
		verr.Add("date", "required")
	}
	if !t.Direction.Valid() {
		verr.Add("direction", "must be INFLOW or OUTFLOW")
	}
	if t.CategoryID == 0 {
		verr.Add("categoryId", "required")
	}
	return verr.Err()
}

func (g *Goal) Validate() error {
	var verr ValidationError
	if strings.TrimSpace(g.Title) == "" {
		verr.Add("title", "required")
	}
	if g.Target.Cents <= 0 {
		verr.Add("target", "must be positive")
	}
	if g.TargetDate.IsZero() {
		verr.Add("targetDate", "required")
	}
	switch g.Status {
	case GoalActive, GoalCancelled:
	default:
		verr.Add("status", "must be ACTIVE or CANCELLED")
	}
	return verr.Err()
}
