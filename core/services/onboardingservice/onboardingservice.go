// Package onboardingservice assigns a new account its role and creates the
// matching profile row in one transaction. Until this runs, a user has no
// type and the router keeps them on the onboarding flow.
package onboardingservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/companionhealth/companion/core/repositories/caretakersrepo"
	"github.com/companionhealth/companion/core/repositories/doctorsrepo"
	"github.com/companionhealth/companion/core/repositories/medicalstaffrepo"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/companionhealth/companion/sdk/validation"
)

// Set of errors the http layer maps to response codes.
var (
	ErrAlreadyOnboarded = errors.New("user already has a role")
	ErrUnknownRole      = errors.New("unknown role")
	ErrMissingProfile   = errors.New("role requires its profile fields")
)

// Choice carries the role a user picked and the profile fields that role
// needs. Exactly one profile block must match the role.
type Choice struct {
	Role      string                              `json:"role"`
	Patient   *patientsrepo.CreatePatient         `json:"patient"`
	Doctor    *doctorsrepo.CreateDoctor           `json:"doctor"`
	Caretaker *caretakersrepo.CreateCaretaker     `json:"caretaker"`
	Staff     *medicalstaffrepo.CreateStaffMember `json:"staff"`
}

// UserStorer is the slice of user operations the service needs.
type UserStorer interface {
	QueryByID(ctx context.Context, userID string) (usersrepo.User, error)
	Update(ctx context.Context, userID string, uu usersrepo.UpdateUser) (usersrepo.User, error)
}

// ProfileStorers bundles the per-role profile creators.
type ProfileStorers struct {
	Patients interface {
		Create(ctx context.Context, np patientsrepo.CreatePatient) (patientsrepo.Patient, error)
	}
	Doctors interface {
		Create(ctx context.Context, nd doctorsrepo.CreateDoctor) (doctorsrepo.Doctor, error)
	}
	Caretakers interface {
		Create(ctx context.Context, nc caretakersrepo.CreateCaretaker) (caretakersrepo.Caretaker, error)
	}
	Staff interface {
		Create(ctx context.Context, ns medicalstaffrepo.CreateStaffMember) (medicalstaffrepo.StaffMember, error)
	}
}

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithinTran(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service manages the onboarding workflow.
type Service struct {
	log      *logger.Logger
	users    UserStorer
	profiles ProfileStorers
	tran     Transactor
}

// NewService constructs an onboarding service for use.
func NewService(log *logger.Logger, users UserStorer, profiles ProfileStorers, tran Transactor) *Service {
	return &Service{
		log:      log,
		users:    users,
		profiles: profiles,
		tran:     tran,
	}
}

// Onboard assigns the chosen role to a user and creates its profile.
func (s *Service) Onboard(ctx context.Context, userID string, choice Choice) (usersrepo.User, error) {
	var updated usersrepo.User

	err := s.tran.WithinTran(ctx, func(ctx context.Context) error {
		usr, err := s.users.QueryByID(ctx, userID)
		if err != nil {
			return err
		}
		if usr.UserType != nil {
			return ErrAlreadyOnboarded
		}

		switch choice.Role {
		case usersrepo.TypePatient:
			np := patientsrepo.CreatePatient{}
			if choice.Patient != nil {
				np = *choice.Patient
			}
			np.UserID = userID
			if _, err := s.profiles.Patients.Create(ctx, np); err != nil {
				return err
			}

		case usersrepo.TypeDoctor:
			if choice.Doctor == nil || choice.Doctor.LicenseNumber == "" {
				return ErrMissingProfile
			}
			nd := *choice.Doctor
			nd.UserID = userID
			if _, err := s.profiles.Doctors.Create(ctx, nd); err != nil {
				return err
			}

		case usersrepo.TypeCaretaker:
			nc := caretakersrepo.CreateCaretaker{}
			if choice.Caretaker != nil {
				nc = *choice.Caretaker
			}
			nc.UserID = userID
			if _, err := s.profiles.Caretakers.Create(ctx, nc); err != nil {
				return err
			}

		case usersrepo.TypeMedicalStaff:
			ns := medicalstaffrepo.CreateStaffMember{}
			if choice.Staff != nil {
				ns = *choice.Staff
			}
			ns.UserID = userID
			if _, err := s.profiles.Staff.Create(ctx, ns); err != nil {
				return err
			}

		default:
			return ErrUnknownRole
		}

		updated, err = s.users.Update(ctx, userID, usersrepo.UpdateUser{
			UserType: validation.StringPtr(choice.Role),
		})
		return err
	})
	if err != nil {
		return usersrepo.User{}, fmt.Errorf("onboard user[%s]: %w", userID, err)
	}

	return updated, nil
}
