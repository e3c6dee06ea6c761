// Package admin drives the administration surface: user management and
// per-entity custom field configuration. Every call here requires the
// admin role; a 403 from the backend is surfaced as ErrAdminRequired so
// callers can render the dedicated access message instead of a generic
// failure.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumicrm/lumicrm-go/internal/admin/domain"
	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"go.uber.org/zap"
)

var ErrAdminRequired = errors.New("admin_required")

type Service struct {
	api *apiclient.Client
	log *zap.Logger
}

func New(api *apiclient.Client, logger *zap.Logger) *Service {
	return &Service{api: api, log: logger.Named("admin")}
}

// wrap translates forbidden responses into the admin sentinel.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if apiclient.IsForbidden(err) {
		return errors.Join(ErrAdminRequired, err)
	}
	return err
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.api.Get(ctx, "admin/users", &users); err != nil {
		return nil, wrap(err)
	}
	return users, nil
}

func (s *Service) CreateUser(ctx context.Context, req domain.NewUser) (domain.User, error) {
	if err := req.Validate(); err != nil {
		return domain.User{}, err
	}
	var created domain.User
	if err := s.api.Post(ctx, "admin/users", req, &created); err != nil {
		return domain.User{}, wrap(err)
	}
	s.log.Info("user created", zap.String("user_id", created.ID))
	return created, nil
}

func (s *Service) AssignRole(ctx context.Context, userID, role string) error {
	body := map[string]string{"role": role}
	if err := s.api.Post(ctx, "admin/users/"+userID+"/role", body, nil); err != nil {
		return wrap(err)
	}
	s.log.Info("role assigned", zap.String("user_id", userID), zap.String("role", role))
	return nil
}

func (s *Service) RemoveRole(ctx context.Context, userID, role string) error {
	if err := s.api.Delete(ctx, "admin/users/"+userID+"/role/"+role); err != nil {
		return wrap(err)
	}
	s.log.Info("role removed", zap.String("user_id", userID), zap.String("role", role))
	return nil
}

// SetUserStatus activates or deactivates an account.
func (s *Service) SetUserStatus(ctx context.Context, userID string, active bool) error {
	body := map[string]bool{"is_active": active}
	if err := s.api.Put(ctx, fmt.Sprintf("admin/users/%s/status", userID), body, nil); err != nil {
		return wrap(err)
	}
	return nil
}

func (s *Service) ListCustomFields(ctx context.Context) ([]domain.CustomField, error) {
	var fields []domain.CustomField
	if err := s.api.Get(ctx, "admin/custom-fields", &fields); err != nil {
		return nil, wrap(err)
	}
	return fields, nil
}

func (s *Service) CreateCustomField(ctx context.Context, field domain.CustomField) (domain.CustomField, error) {
	if err := field.Validate(); err != nil {
		return domain.CustomField{}, err
	}
	var created domain.CustomField
	if err := s.api.Post(ctx, "admin/custom-fields", field, &created); err != nil {
		return domain.CustomField{}, wrap(err)
	}
	return created, nil
}

func (s *Service) DeleteCustomField(ctx context.Context, fieldID string) error {
	return wrap(s.api.Delete(ctx, "admin/custom-fields/"+fieldID))
}
