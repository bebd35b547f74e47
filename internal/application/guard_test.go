package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

func TestGuard(t *testing.T) {
	id := primitive.NewObjectID()
	tests := []struct {
		name  string
		p     entity.Principal
		roles []entity.Role
		want  error
	}{
		{"anonymous", entity.Anonymous, nil, application.ErrUnauthenticated},
		{"offline", entity.Principal{ID: id, Role: entity.RoleUser, Status: entity.StatusOffline}, nil, application.ErrPresenceRequired},
		{"offline and wrong role", entity.Principal{ID: id, Role: entity.RoleUser, Status: entity.StatusOffline}, []entity.Role{entity.RoleCompanyHR}, application.ErrPresenceRequired},
		{"wrong role", entity.Principal{ID: id, Role: entity.RoleUser, Status: entity.StatusOnline}, []entity.Role{entity.RoleCompanyHR}, application.ErrForbidden},
		{"any role", entity.Principal{ID: id, Role: entity.RoleUser, Status: entity.StatusOnline}, nil, nil},
		{"one of roles", entity.Principal{ID: id, Role: entity.RoleCompanyHR, Status: entity.StatusOnline}, []entity.Role{entity.RoleUser, entity.RoleCompanyHR}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := application.Guard(tt.p, "Op", tt.roles...)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want, application.KindOf(err))
		})
	}
}

func TestRequireAuthenticatedIgnoresPresence(t *testing.T) {
	p := entity.Principal{ID: primitive.NewObjectID(), Role: entity.RoleUser, Status: entity.StatusOffline}
	assert.NoError(t, application.RequireAuthenticated(p, "Op"))
	assert.ErrorIs(t, application.RequireAuthenticated(entity.Anonymous, "Op"), application.ErrUnauthenticated)
}

func TestKindOf(t *testing.T) {
	assert.Nil(t, application.KindOf(errBoom))
	assert.Nil(t, application.KindOf(nil))

	err := &application.Error{Op: "SignIn", Kind: application.ErrNotFound, Message: "missing", Err: errBoom}
	assert.Equal(t, application.ErrNotFound, application.KindOf(err))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, "SignIn: missing: boom", err.Error())
}
