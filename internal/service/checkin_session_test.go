package service

import (
	"sync"
	"testing"
	"time"

	"attendance-engine/internal/models"
	"attendance-engine/internal/repository"
)

// fakeSessionRepo - потокобезопасное хранилище в памяти для тестов сервиса
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.CheckinSession
	nextID   uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.CheckinSession)}
}

func (f *fakeSessionRepo) Create(session *models.CheckinSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.sessions[session.Value]; exists {
		return repository.ErrDuplicateValue
	}

	f.nextID++
	session.ID = f.nextID

	stored := *session
	f.sessions[session.Value] = &stored
	return nil
}

func (f *fakeSessionRepo) GetByValue(value string) (*models.CheckinSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.sessions[value]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) Deactivate(value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if session, ok := f.sessions[value]; ok {
		session.IsActive = false
	}
	return nil
}

func (f *fakeSessionRepo) ListExpiredActive(now time.Time) ([]*models.CheckinSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.CheckinSession
	for _, session := range f.sessions {
		if session.IsActive && !now.Before(session.ExpiresAt) {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) DeleteByValue(value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.sessions, value)
	return nil
}

func newTestSessionService(now time.Time) (*CheckinSessionService, *fakeSessionRepo) {
	repo := newFakeSessionRepo()
	svc := NewCheckinSessionService(repo)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestCheckinSession_CreateThenValidate(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestSessionService(t0)

	session, err := svc.Create("main-entrance", 24)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.Value == "" {
		t.Fatal("Create() returned empty value")
	}
	if !session.ExpiresAt.Equal(t0.Add(24 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want t0+24h", session.ExpiresAt)
	}

	valid, err := svc.Validate(session.Value)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !valid {
		t.Error("Validate() right after Create() = false, want true")
	}
}

// TestCheckinSession_Expiry - сессия на 1 час: действительна на T0+30м, нет на T0+61м
func TestCheckinSession_Expiry(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestSessionService(t0)

	session, err := svc.Create("lab", 1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	svc.now = func() time.Time { return t0.Add(30 * time.Minute) }
	if valid, _ := svc.Validate(session.Value); !valid {
		t.Error("Validate at T0+30m = false, want true")
	}

	svc.now = func() time.Time { return t0.Add(61 * time.Minute) }
	if valid, _ := svc.Validate(session.Value); valid {
		t.Error("Validate at T0+61m = true, want false")
	}

	// Ровно на границе срока сессия уже недействительна
	svc.now = func() time.Time { return t0.Add(time.Hour) }
	if valid, _ := svc.Validate(session.Value); valid {
		t.Error("Validate at exact expiry = true, want false")
	}
}

func TestCheckinSession_DeactivateIsPermanent(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestSessionService(t0)

	session, err := svc.Create("gate-b", 24)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Deactivate(session.Value); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	if valid, _ := svc.Validate(session.Value); valid {
		t.Error("Validate after Deactivate = true, want false")
	}

	// Повторная проверка позже - все еще false
	svc.now = func() time.Time { return t0.Add(time.Minute) }
	if valid, _ := svc.Validate(session.Value); valid {
		t.Error("Validate remains true after deactivation")
	}
}

// TestCheckinSession_DeactivateIdempotent - гашение несуществующей или уже
// погашенной сессии не считается ошибкой
func TestCheckinSession_DeactivateIdempotent(t *testing.T) {
	svc, _ := newTestSessionService(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	if err := svc.Deactivate("never-existed"); err != nil {
		t.Errorf("Deactivate(unknown) error = %v, want nil", err)
	}

	session, _ := svc.Create("gate-c", 24)
	if err := svc.Deactivate(session.Value); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if err := svc.Deactivate(session.Value); err != nil {
		t.Errorf("second Deactivate() error = %v, want nil", err)
	}
}

func TestCheckinSession_ValidateUnknown(t *testing.T) {
	svc, _ := newTestSessionService(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	valid, err := svc.Validate("no-such-value")
	if err != nil {
		t.Fatalf("Validate(unknown) error = %v, want nil", err)
	}
	if valid {
		t.Error("Validate(unknown) = true, want false")
	}

	if valid, _ := svc.Validate(""); valid {
		t.Error("Validate(empty) = true, want false")
	}
}

// TestCheckinSession_ConcurrentCreate - параллельные Create не выдают одинаковых значений
func TestCheckinSession_ConcurrentCreate(t *testing.T) {
	svc, _ := newTestSessionService(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	const workers = 50
	values := make(chan string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := svc.Create("stress", 1)
			if err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			values <- session.Value
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[string]bool)
	for value := range values {
		if seen[value] {
			t.Fatalf("duplicate session value %s", value)
		}
		seen[value] = true
	}
}

// TestCheckinSession_ConcurrentValidateDeactivate - после завершившегося
// Deactivate никакой Validate не возвращает true
func TestCheckinSession_ConcurrentValidateDeactivate(t *testing.T) {
	svc, _ := newTestSessionService(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	session, err := svc.Create("race", 24)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var wg sync.WaitGroup
	deactivated := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := svc.Deactivate(session.Value); err != nil {
			t.Errorf("Deactivate() error = %v", err)
		}
		close(deactivated)
	}()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-deactivated
			valid, err := svc.Validate(session.Value)
			if err != nil {
				t.Errorf("Validate() error = %v", err)
				return
			}
			if valid {
				t.Error("Validate = true after committed Deactivate")
			}
		}()
	}

	wg.Wait()
}

func TestCheckinSession_GateEvent(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestSessionService(t0)

	session, _ := svc.Create("entrance", 1)

	// Событие без сессии проходит всегда
	plain := &models.AttendanceEvent{
		EmployeeID:     "emp-1",
		OrganizationID: "org-1",
		Type:           models.EventSignIn,
		Timestamp:      t0,
	}
	if ok, _ := svc.GateEvent(plain); !ok {
		t.Error("GateEvent without session = false, want true")
	}

	gated := &models.AttendanceEvent{
		EmployeeID:     "emp-1",
		OrganizationID: "org-1",
		Type:           models.EventSignIn,
		Timestamp:      t0,
		SessionValue:   session.Value,
	}
	if ok, _ := svc.GateEvent(gated); !ok {
		t.Error("GateEvent with valid session = false, want true")
	}

	svc.now = func() time.Time { return t0.Add(2 * time.Hour) }
	if ok, _ := svc.GateEvent(gated); ok {
		t.Error("GateEvent with expired session = true, want false")
	}
}

func TestCheckinSession_DeactivateExpired(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestSessionService(t0)

	short, _ := svc.Create("short", 1)
	long, _ := svc.Create("long", 48)

	svc.now = func() time.Time { return t0.Add(2 * time.Hour) }

	count, err := svc.DeactivateExpired()
	if err != nil {
		t.Fatalf("DeactivateExpired() error = %v", err)
	}
	if count != 1 {
		t.Errorf("deactivated = %d, want 1", count)
	}

	stored, _ := repo.GetByValue(short.Value)
	if stored.IsActive {
		t.Error("expired session still active after cleanup")
	}

	if valid, _ := svc.Validate(long.Value); !valid {
		t.Error("long-lived session must stay valid after cleanup")
	}
}

// alwaysCollidingRepo симулирует исчерпание уникальных значений
type alwaysCollidingRepo struct {
	*fakeSessionRepo
}

func (r *alwaysCollidingRepo) Create(session *models.CheckinSession) error {
	return repository.ErrDuplicateValue
}

func TestCheckinSession_CreateExhaustsRetries(t *testing.T) {
	svc := NewCheckinSessionService(&alwaysCollidingRepo{newFakeSessionRepo()})

	_, err := svc.Create("collisions", 24)
	if err != ErrDuplicateSession {
		t.Errorf("Create() error = %v, want ErrDuplicateSession", err)
	}
}

// TestCheckinSession_DefaultDuration - неположительная длительность дает 24 часа
func TestCheckinSession_DefaultDuration(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestSessionService(t0)

	session, err := svc.Create("default", 0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !session.ExpiresAt.Equal(t0.Add(24 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want t0+24h", session.ExpiresAt)
	}
}
