package patient

import (
	"context"
	"regexp"
	"strings"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	"github.com/jwalitptl/clinic-ops-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
)

var phonePattern = regexp.MustCompile(`^\+?\d{9,15}$`)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	phone := strings.TrimSpace(req.Phone)

	if firstName == "" || lastName == "" || phone == "" {
		return nil, apperrors.Validation("first name, last name and phone are required")
	}
	if !phonePattern.MatchString(phone) {
		return nil, apperrors.Validation("invalid phone format: %s", phone)
	}

	var email *string
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		email = &normalized
	}

	patient := &model.Patient{
		FirstName:     firstName,
		LastName:      lastName,
		Phone:         phone,
		Email:         email,
		Address:       req.Address,
		DateOfBirth:   req.DateOfBirth,
		SkinType:      req.SkinType,
		Sensitivities: req.Sensitivities,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		patient.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if !phonePattern.MatchString(phone) {
			return nil, apperrors.Validation("invalid phone format: %s", phone)
		}
		patient.Phone = phone
	}
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		patient.Email = &normalized
	}
	if req.Address != nil {
		patient.Address = req.Address
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.SkinType != nil {
		patient.SkinType = req.SkinType
	}
	if req.Sensitivities != nil {
		patient.Sensitivities = req.Sensitivities
	}

	if patient.FirstName == "" || patient.LastName == "" {
		return nil, apperrors.Validation("first name and last name cannot be empty")
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
