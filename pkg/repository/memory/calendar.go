package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type calendarCredentialRepository struct {
	mu    sync.RWMutex
	creds map[string]*model.CalendarCredential
}

func newCalendarCredentialRepository() *calendarCredentialRepository {
	return &calendarCredentialRepository{
		creds: make(map[string]*model.CalendarCredential),
	}
}

func (r *calendarCredentialRepository) Put(ctx context.Context, cred *model.CalendarCredential) error {
	if cred.OrgID == "" {
		return goerr.New("calendar credential requires org_id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := *cred
	c.UpdatedAt = time.Now().UTC()
	r.creds[cred.OrgID] = &c
	return nil
}

func (r *calendarCredentialRepository) Get(ctx context.Context, orgID string) (*model.CalendarCredential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.creds[orgID]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "calendar credential not found", goerr.V("org_id", orgID))
	}
	out := *c
	return &out, nil
}
