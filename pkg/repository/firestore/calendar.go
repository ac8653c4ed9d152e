package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CalendarCredentialsCollection is the unprefixed collection name of
// calendar credentials.
const CalendarCredentialsCollection = "calendar_credentials"

type calendarCredentialRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCalendarCredentialRepository(client *firestore.Client) *calendarCredentialRepository {
	return &calendarCredentialRepository{client: client}
}

func (r *calendarCredentialRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, CalendarCredentialsCollection))
}

func (r *calendarCredentialRepository) Put(ctx context.Context, cred *model.CalendarCredential) error {
	if cred.OrgID == "" {
		return goerr.New("calendar credential requires org_id")
	}

	c := *cred
	c.UpdatedAt = time.Now().UTC()
	if _, err := r.collection().Doc(cred.OrgID).Set(ctx, &c); err != nil {
		return goerr.Wrap(err, "failed to put calendar credential", goerr.V("org_id", cred.OrgID))
	}
	return nil
}

func (r *calendarCredentialRepository) Get(ctx context.Context, orgID string) (*model.CalendarCredential, error) {
	doc, err := r.collection().Doc(orgID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "calendar credential not found", goerr.V("org_id", orgID))
		}
		return nil, goerr.Wrap(err, "failed to get calendar credential", goerr.V("org_id", orgID))
	}

	var c model.CalendarCredential
	if err := doc.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode calendar credential", goerr.V("org_id", orgID))
	}
	return &c, nil
}
