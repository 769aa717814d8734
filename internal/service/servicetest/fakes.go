// Package servicetest provides in-memory repositories for service tests.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// Tx runs fn directly and counts the transactions opened.
type Tx struct {
	mu    sync.Mutex
	Calls int
}

func (t *Tx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return fn(ctx)
}

// As returns ctx carrying an authenticated principal.
func As(ctx context.Context, userID string, role user.Role, employeeID *string) context.Context {
	return user.WithPrincipal(ctx, user.Principal{UserID: userID, Username: userID, Role: role, EmployeeID: employeeID})
}

func dayKey(employeeID string, d time.Time) string {
	return employeeID + "|" + d.Format("2006-01-02")
}

// ---- users ----

type Users struct {
	mu   sync.Mutex
	byID map[string]user.User
}

func NewUsers(seed ...user.User) *Users {
	u := &Users{byID: make(map[string]user.User)}
	for _, s := range seed {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		u.byID[s.ID] = s
	}
	return u
}

var _ user.UserRepository = (*Users)(nil)

func (r *Users) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *Users) find(match func(user.User) bool) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *Users) GetByEmail(_ context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *Users) GetByLogin(_ context.Context, login string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Username == login || strings.EqualFold(u.Email, login) })
}

func (r *Users) GetByIDs(_ context.Context, ids []string) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *Users) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := r.find(func(u user.User) bool { return u.Username == username })
	return err == nil, nil
}

func (r *Users) Create(_ context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == newUser.Username {
			return user.User{}, user.ErrUsernameExists
		}
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	newUser.ID = uuid.NewString()
	newUser.Email = strings.ToLower(newUser.Email)
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	r.byID[newUser.ID] = newUser
	return newUser, nil
}

func (r *Users) List(_ context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.byID {
		if filter.Role != nil && string(u.Role) != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, int64(len(out)), nil
}

func (r *Users) update(id string, fn func(*user.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	fn(&u)
	r.byID[id] = u
	return nil
}

func (r *Users) UpdateEmail(_ context.Context, userID, email string) error {
	return r.update(userID, func(u *user.User) { u.Email = strings.ToLower(email) })
}

func (r *Users) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	return r.update(userID, func(u *user.User) { u.PasswordHash = &passwordHash })
}

func (r *Users) UpdateRole(_ context.Context, userID string, role user.Role) error {
	return r.update(userID, func(u *user.User) { u.Role = role })
}

func (r *Users) UpdateLastLogin(_ context.Context, userID string) error {
	now := time.Now()
	return r.update(userID, func(u *user.User) { u.LastLoginAt = &now })
}

func (r *Users) LinkGoogleAccount(_ context.Context, userID, googleID string) error {
	provider := "google"
	return r.update(userID, func(u *user.User) {
		u.OAuthProvider = &provider
		u.OAuthProviderID = &googleID
	})
}

func (r *Users) LockAdminIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, u := range r.byID {
		if u.Role == user.RoleAdmin {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Users) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// ---- refresh tokens ----

type refreshToken struct {
	userID    string
	revoked   bool
	expiresAt time.Time
}

type RefreshTokens struct {
	mu     sync.Mutex
	tokens map[string]*refreshToken
}

func NewRefreshTokens() *RefreshTokens {
	return &RefreshTokens{tokens: make(map[string]*refreshToken)}
}

var _ auth.RefreshTokenRepository = (*RefreshTokens)(nil)

func (r *RefreshTokens) CreateRefreshToken(_ context.Context, userID string, token string, expiresAt int64, _ auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = &refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (r *RefreshTokens) IsRefreshTokenRevoked(_ context.Context, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return "", true, nil
	}
	return t.userID, t.revoked || !t.expiresAt.After(time.Now()), nil
}

func (r *RefreshTokens) RevokeRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

func (r *RefreshTokens) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

// Active counts the live tokens of userID.
func (r *RefreshTokens) Active(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.userID == userID && !t.revoked {
			n++
		}
	}
	return n
}

// ---- employees ----

type Employees struct {
	mu    sync.Mutex
	byID  map[string]employee.Employee
	users *Users
}

// NewEmployees joins username, email and role from users when it is set.
func NewEmployees(users *Users, seed ...employee.Employee) *Employees {
	r := &Employees{byID: make(map[string]employee.Employee), users: users}
	for _, s := range seed {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		r.byID[s.ID] = s
	}
	return r
}

var _ employee.EmployeeRepository = (*Employees)(nil)

func (r *Employees) join(e employee.Employee) employee.Employee {
	if r.users == nil {
		return e
	}
	if u, err := r.users.GetByID(context.Background(), e.UserID); err == nil {
		e.Username, e.Email, e.Role = u.Username, u.Email, string(u.Role)
	}
	return e
}

func (r *Employees) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	e.ID = uuid.NewString()
	e.IsActive = true
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.byID[e.ID] = e
	if r.users != nil {
		id := e.ID
		_ = r.users.update(e.UserID, func(u *user.User) { u.EmployeeID = &id })
	}
	return r.join(e), nil
}

func (r *Employees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.join(e), nil
}

func (r *Employees) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.UserID == userID {
			return r.join(e), nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *Employees) GetByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// matches "= ANY($1)": each employee at most once
	var out []employee.Employee
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if e, ok := r.byID[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, r.join(e))
		}
	}
	return out, nil
}

func (r *Employees) sorted(match func(employee.Employee) bool) []employee.Employee {
	var out []employee.Employee
	for _, e := range r.byID {
		if match(e) {
			out = append(out, r.join(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out
}

func (r *Employees) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(e employee.Employee) bool { return e.IsActive }), nil
}

func (r *Employees) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(e employee.Employee) bool {
		if filter.Department != nil && (e.Department == nil || *e.Department != *filter.Department) {
			return false
		}
		if filter.IsActive != nil && e.IsActive != *filter.IsActive {
			return false
		}
		return true
	})
	return out, int64(len(out)), nil
}

func (r *Employees) Update(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.UpdatedAt = time.Now()
	r.byID[e.ID] = e
	r.syncUser(e)
	return r.join(e), nil
}

func (r *Employees) syncUser(e employee.Employee) {
	if r.users != nil {
		_ = r.users.update(e.UserID, func(u *user.User) { u.IsActive = e.IsActive })
	}
}

func (r *Employees) UpdateContact(_ context.Context, id string, phone, address *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if phone != nil {
		e.Phone = phone
	}
	if address != nil {
		e.Address = address
	}
	r.byID[id] = e
	return nil
}

func (r *Employees) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok || !e.IsActive {
		return employee.ErrEmployeeAlreadyInactive
	}
	e.IsActive = false
	r.byID[id] = e
	r.syncUser(e)
	return nil
}

func (r *Employees) Departments(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.byID {
		if e.Department != nil && *e.Department != "" && !seen[*e.Department] {
			seen[*e.Department] = true
			out = append(out, *e.Department)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ---- attendance ----

type Attendances struct {
	mu   sync.Mutex
	byID map[string]attendance.Attendance
}

func NewAttendances() *Attendances {
	return &Attendances{byID: make(map[string]attendance.Attendance)}
}

var _ attendance.AttendanceRepository = (*Attendances)(nil)

func (r *Attendances) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if dayKey(existing.EmployeeID, existing.Date) == dayKey(a.EmployeeID, a.Date) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.byID[a.ID] = a
	return a, nil
}

func (r *Attendances) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *Attendances) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if dayKey(a.EmployeeID, a.Date) == dayKey(employeeID, date) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *Attendances) LockByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return r.GetByEmployeeAndDate(ctx, employeeID, date)
}

func (r *Attendances) Update(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.UpdatedAt = time.Now()
	r.byID[a.ID] = a
	return a, nil
}

func (r *Attendances) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Attendances) all(match func(attendance.Attendance) bool) []attendance.Attendance {
	var out []attendance.Attendance
	for _, a := range r.byID {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r *Attendances) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.all(func(a attendance.Attendance) bool {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			return false
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			return false
		}
		return true
	})
	return out, int64(len(out)), nil
}

func (r *Attendances) History(_ context.Context, employeeID string, limit int) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.all(func(a attendance.Attendance) bool { return a.EmployeeID == employeeID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Attendances) Stats(_ context.Context, from, to time.Time) (attendance.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s attendance.Stats
	for _, a := range r.byID {
		if a.Date.Before(from) || !a.Date.Before(to) {
			continue
		}
		switch a.Status {
		case attendance.StatusPresent:
			s.Present++
		case attendance.StatusLate:
			s.Late++
		case attendance.StatusAbsent:
			s.Absent++
		case attendance.StatusHalfDay:
			s.HalfDay++
		}
		s.TotalHours += a.HoursWorked
		s.TotalOvertime += a.OvertimeHours
	}
	return s, nil
}

// Len is the number of stored records.
func (r *Attendances) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ---- office hours ----

type OfficeHours struct {
	mu   sync.Mutex
	byID map[string]timepolicy.OfficeHours
}

func NewOfficeHours(seed ...timepolicy.OfficeHours) *OfficeHours {
	r := &OfficeHours{byID: make(map[string]timepolicy.OfficeHours)}
	for _, s := range seed {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		r.byID[s.ID] = s
	}
	return r
}

var _ timepolicy.OfficeHoursRepository = (*OfficeHours)(nil)

func (r *OfficeHours) Create(_ context.Context, oh timepolicy.OfficeHours) (timepolicy.OfficeHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	oh.ID = uuid.NewString()
	r.byID[oh.ID] = oh
	return oh, nil
}

func (r *OfficeHours) GetByID(_ context.Context, id string) (timepolicy.OfficeHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	oh, ok := r.byID[id]
	if !ok {
		return timepolicy.OfficeHours{}, timepolicy.ErrOfficeHoursNotFound
	}
	return oh, nil
}

func (r *OfficeHours) GetDefault(_ context.Context) (timepolicy.OfficeHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, oh := range r.byID {
		if oh.IsDefault && oh.IsActive {
			return oh, nil
		}
	}
	return timepolicy.OfficeHours{}, timepolicy.ErrNoDefaultOfficeHours
}

func (r *OfficeHours) List(_ context.Context, includeInactive bool) ([]timepolicy.OfficeHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []timepolicy.OfficeHours
	for _, oh := range r.byID {
		if oh.IsActive || includeInactive {
			out = append(out, oh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *OfficeHours) Update(_ context.Context, oh timepolicy.OfficeHours) (timepolicy.OfficeHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[oh.ID]
	if !ok {
		return timepolicy.OfficeHours{}, timepolicy.ErrOfficeHoursNotFound
	}
	oh.IsDefault = existing.IsDefault
	r.byID[oh.ID] = oh
	return oh, nil
}

func (r *OfficeHours) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	oh, ok := r.byID[id]
	if !ok {
		return timepolicy.ErrOfficeHoursNotFound
	}
	oh.IsActive, oh.IsDefault = false, false
	r.byID[id] = oh
	return nil
}

func (r *OfficeHours) ClearDefault(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, oh := range r.byID {
		oh.IsDefault = false
		r.byID[id] = oh
	}
	return nil
}

func (r *OfficeHours) SetDefault(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	oh, ok := r.byID[id]
	if !ok || !oh.IsActive {
		return timepolicy.ErrOfficeHoursNotFound
	}
	oh.IsDefault = true
	r.byID[id] = oh
	return nil
}

// ---- attendance policies ----

type Policies struct {
	mu   sync.Mutex
	byID map[string]timepolicy.AttendancePolicy
}

func NewPolicies(seed ...timepolicy.AttendancePolicy) *Policies {
	r := &Policies{byID: make(map[string]timepolicy.AttendancePolicy)}
	for _, s := range seed {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		r.byID[s.ID] = s
	}
	return r
}

var _ timepolicy.AttendancePolicyRepository = (*Policies)(nil)

func (r *Policies) Create(_ context.Context, p timepolicy.AttendancePolicy) (timepolicy.AttendancePolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	r.byID[p.ID] = p
	return p, nil
}

func (r *Policies) GetByID(_ context.Context, id string) (timepolicy.AttendancePolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return timepolicy.AttendancePolicy{}, timepolicy.ErrAttendancePolicyNotFound
	}
	return p, nil
}

func (r *Policies) GetDefault(_ context.Context) (timepolicy.AttendancePolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.IsDefault && p.IsActive {
			return p, nil
		}
	}
	return timepolicy.AttendancePolicy{}, timepolicy.ErrNoDefaultPolicy
}

func (r *Policies) List(_ context.Context, includeInactive bool) ([]timepolicy.AttendancePolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []timepolicy.AttendancePolicy
	for _, p := range r.byID {
		if p.IsActive || includeInactive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Policies) Update(_ context.Context, p timepolicy.AttendancePolicy) (timepolicy.AttendancePolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[p.ID]
	if !ok {
		return timepolicy.AttendancePolicy{}, timepolicy.ErrAttendancePolicyNotFound
	}
	p.IsDefault = existing.IsDefault
	r.byID[p.ID] = p
	return p, nil
}

func (r *Policies) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return timepolicy.ErrAttendancePolicyNotFound
	}
	p.IsActive, p.IsDefault = false, false
	r.byID[id] = p
	return nil
}

func (r *Policies) ClearDefault(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.byID {
		p.IsDefault = false
		r.byID[id] = p
	}
	return nil
}

func (r *Policies) SetDefault(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || !p.IsActive {
		return timepolicy.ErrAttendancePolicyNotFound
	}
	p.IsDefault = true
	r.byID[id] = p
	return nil
}

// ---- locations ----

type Locations struct {
	mu      sync.Mutex
	byID    map[string]location.OfficeLocation
	Lookups int
}

func NewLocations(seed ...location.OfficeLocation) *Locations {
	r := &Locations{byID: make(map[string]location.OfficeLocation)}
	for _, s := range seed {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		r.byID[s.ID] = s
	}
	return r
}

var _ location.LocationRepository = (*Locations)(nil)

func (r *Locations) Create(_ context.Context, l location.OfficeLocation) (location.OfficeLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = uuid.NewString()
	r.byID[l.ID] = l
	return l, nil
}

func (r *Locations) GetByID(_ context.Context, id string) (location.OfficeLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lookups++
	l, ok := r.byID[id]
	if !ok {
		return location.OfficeLocation{}, location.ErrLocationNotFound
	}
	return l, nil
}

func (r *Locations) List(_ context.Context, includeInactive bool) ([]location.OfficeLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []location.OfficeLocation
	for _, l := range r.byID {
		if l.IsActive || includeInactive {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Locations) Update(_ context.Context, l location.OfficeLocation) (location.OfficeLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[l.ID]; !ok {
		return location.OfficeLocation{}, location.ErrLocationNotFound
	}
	r.byID[l.ID] = l
	return l, nil
}

func (r *Locations) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return location.ErrLocationNotFound
	}
	l.IsActive = false
	r.byID[id] = l
	return nil
}

// ---- payrolls ----

type Payrolls struct {
	mu   sync.Mutex
	byID map[string]payroll.Payroll
}

func NewPayrolls() *Payrolls {
	return &Payrolls{byID: make(map[string]payroll.Payroll)}
}

var _ payroll.PayrollRepository = (*Payrolls)(nil)

func samePeriod(p payroll.Payroll, period payroll.Period) bool {
	return p.PayPeriodStart.Equal(period.Start) && p.PayPeriodEnd.Equal(period.End)
}

func (r *Payrolls) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.EmployeeID == p.EmployeeID && samePeriod(existing, payroll.Period{Start: p.PayPeriodStart, End: p.PayPeriodEnd}) {
			return payroll.Payroll{}, payroll.ErrPayrollAlreadyExists
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.byID[p.ID] = p
	return p, nil
}

func (r *Payrolls) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

func (r *Payrolls) List(_ context.Context, filter payroll.PayrollFilter) ([]payroll.Payroll, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Payroll
	for _, p := range r.byID {
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayPeriodStart.After(out[j].PayPeriodStart) })
	return out, int64(len(out)), nil
}

func (r *Payrolls) EmployeesWithPayroll(_ context.Context, period payroll.Period, employeeIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool)
	for _, id := range employeeIDs {
		wanted[id] = true
	}
	found := make(map[string]bool)
	for _, p := range r.byID {
		if wanted[p.EmployeeID] && samePeriod(p, period) {
			found[p.EmployeeID] = true
		}
	}
	return found, nil
}

func (r *Payrolls) MarkPaid(_ context.Context, id string) (payroll.Payroll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	switch p.Status {
	case payroll.PayrollStatusPaid:
		return payroll.Payroll{}, payroll.ErrPayrollAlreadyPaid
	case payroll.PayrollStatusProcessed:
	default:
		return payroll.Payroll{}, payroll.ErrPayrollNotProcessed
	}
	now := time.Now()
	p.Status = payroll.PayrollStatusPaid
	p.PaidAt = &now
	r.byID[id] = p
	return p, nil
}

func (r *Payrolls) Summary(_ context.Context, period payroll.Period) (payroll.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s payroll.Summary
	for _, p := range r.byID {
		if p.PayPeriodStart.Before(period.Start) || p.PayPeriodEnd.After(period.End) {
			continue
		}
		s.Count++
		s.TotalGross = s.TotalGross.Add(p.GrossSalary)
		s.TotalDeductions = s.TotalDeductions.Add(p.TotalDeductions)
		s.TotalNet = s.TotalNet.Add(p.NetSalary)
		if p.Status == payroll.PayrollStatusPaid {
			s.Paid++
		}
	}
	return s, nil
}
