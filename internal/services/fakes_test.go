package services

import (
	"errors"
	"sync"
	"time"

	"siteworks/internal/models"
	"siteworks/internal/repositories"
)

// In-memory stands-ins for the repositories, mutex-map style.

type fakeOTPStore struct {
	mu    sync.Mutex
	seq   int64
	codes map[int64]*models.OTPCode
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: map[int64]*models.OTPCode{}}
}

func (s *fakeOTPStore) Create(phone, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.codes[s.seq] = &models.OTPCode{
		ID: s.seq, Phone: phone, CodeHash: codeHash,
		SentAt: sentAt, ExpiresAt: expiresAt,
	}
	return s.seq, nil
}

func (s *fakeOTPStore) DeleteUnverifiedByPhone(phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.codes {
		if c.Phone == phone && !c.Verified {
			delete(s.codes, id)
		}
	}
	return nil
}

func (s *fakeOTPStore) GetLatestUnverifiedByPhone(phone string) (*models.OTPCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.OTPCode
	for _, c := range s.codes {
		if c.Phone != phone || c.Verified {
			continue
		}
		if latest == nil || c.ID > latest.ID {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *fakeOTPStore) IncrementAttempts(id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[id]
	if !ok {
		return 0, errors.New("no such code")
	}
	c.Attempts++
	return c.Attempts, nil
}

func (s *fakeOTPStore) MarkVerified(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.codes[id]; ok {
		c.Verified = true
	}
	return nil
}

func (s *fakeOTPStore) MarkVerifiedByPhone(phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.codes {
		if c.Phone == phone && !c.Verified {
			c.Verified = true
		}
	}
	return nil
}

func (s *fakeOTPStore) DeleteExpiredOrVerified(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.codes {
		if c.Verified || c.ExpiresAt.Before(now) {
			delete(s.codes, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeOTPStore) unverifiedCount(phone string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.codes {
		if c.Phone == phone && !c.Verified {
			n++
		}
	}
	return n
}

func (s *fakeOTPStore) attempts(phone string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.OTPCode
	for _, c := range s.codes {
		if c.Phone == phone && (latest == nil || c.ID > latest.ID) {
			latest = c
		}
	}
	if latest == nil {
		return -1
	}
	return latest.Attempts
}

type sentSMS struct {
	Phone string
	Code  string
}

type fakeGateway struct {
	mu   sync.Mutex
	fail bool
	sent []sentSMS
}

func (g *fakeGateway) SendOTP(phone, code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errors.New("gateway down")
	}
	g.sent = append(g.sent, sentSMS{Phone: phone, Code: code})
	return nil
}

type fakeRefreshStore struct {
	mu   sync.Mutex
	seq  int64
	rows map[string]*models.RefreshToken
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{rows: map[string]*models.RefreshToken{}}
}

func (s *fakeRefreshStore) Create(token string, userID int, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.rows[token] = &models.RefreshToken{
		ID: s.seq, Token: token, UserID: userID,
		ExpiresAt: expiresAt, CreatedAt: time.Now(),
	}
	return nil
}

func (s *fakeRefreshStore) GetByToken(token string) (*models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (s *fakeRefreshStore) Consume(token string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok || row.Revoked || !row.ExpiresAt.After(now) {
		return 0, repositories.ErrNotFound
	}
	row.Revoked = true
	t := now
	row.RotatedAt = &t
	return row.UserID, nil
}

func (s *fakeRefreshStore) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[token]; ok {
		row.Revoked = true
	}
	return nil
}

func (s *fakeRefreshStore) DeleteExpired(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, row := range s.rows {
		if row.ExpiresAt.Before(now) {
			delete(s.rows, token)
			n++
		}
	}
	return n, nil
}

type fakeUserStore struct {
	mu      sync.Mutex
	seq     int
	byID    map[int]*models.User
	byPhone map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[int]*models.User{}, byPhone: map[string]*models.User{}}
}

func (s *fakeUserStore) GetByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindOrCreate(phone string) (*models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byPhone[phone]; ok {
		cp := *u
		return &cp, false, nil
	}
	s.seq++
	u := &models.User{ID: s.seq, Phone: phone, Name: models.DefaultUserName, CreatedAt: time.Now()}
	s.byID[u.ID] = u
	s.byPhone[phone] = u
	cp := *u
	return &cp, true, nil
}

type fakeProjectStore struct {
	mu       sync.Mutex
	seq      int
	projects map[int]*models.Project
	members  map[int]map[int]string // projectID -> userID -> role
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{
		projects: map[int]*models.Project{},
		members:  map[int]map[int]string{},
	}
}

func (s *fakeProjectStore) Create(p *models.Project) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	p.ID = s.seq
	p.CreatedAt = time.Now()
	cp := *p
	s.projects[p.ID] = &cp
	return p.ID, nil
}

func (s *fakeProjectStore) GetByID(id int) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProjectStore) ListForUser(userID int) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Project
	for _, p := range s.projects {
		if p.OwnerID == userID {
			cp := *p
			out = append(out, &cp)
			continue
		}
		if _, ok := s.members[p.ID][userID]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) Update(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; ok {
		cp := *p
		s.projects[p.ID] = &cp
	}
	return nil
}

func (s *fakeProjectStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
	delete(s.members, id)
	return nil
}

func (s *fakeProjectStore) AddMember(projectID, userID int, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[projectID] == nil {
		s.members[projectID] = map[int]string{}
	}
	if _, ok := s.members[projectID][userID]; !ok {
		s.members[projectID][userID] = role
	}
	return nil
}

func (s *fakeProjectStore) ListMembers(projectID int) ([]*models.ProjectMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ProjectMember
	for userID, role := range s.members[projectID] {
		out = append(out, &models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role})
	}
	return out, nil
}

func (s *fakeProjectStore) IsMember(projectID, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[projectID]; ok && p.OwnerID == userID {
		return true, nil
	}
	_, ok := s.members[projectID][userID]
	return ok, nil
}

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (a *fakeAlerter) SecurityAlert(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, text)
}

func (a *fakeAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}
