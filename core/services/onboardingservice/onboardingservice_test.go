package onboardingservice

import (
	"context"
	"testing"
	"time"

	"github.com/companionhealth/companion/core/repositories/caretakersrepo"
	"github.com/companionhealth/companion/core/repositories/doctorsrepo"
	"github.com/companionhealth/companion/core/repositories/medicalstaffrepo"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeWorld holds users and the profile rows created during onboarding so a
// test can assert on what a run left behind.
type fakeWorld struct {
	users      map[string]usersrepo.User
	patients   []patientsrepo.CreatePatient
	doctors    []doctorsrepo.CreateDoctor
	caretakers []caretakersrepo.CreateCaretaker
	staff      []medicalstaffrepo.CreateStaffMember
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{users: make(map[string]usersrepo.User)}
}

func (w *fakeWorld) addUser(userType *string) string {
	id := uuid.NewString()
	w.users[id] = usersrepo.User{
		UserID:    id,
		Email:     id + "@example.com",
		UserType:  userType,
		CreatedAt: time.Now(),
	}
	return id
}

type fakeUsers struct{ w *fakeWorld }

func (u fakeUsers) QueryByID(ctx context.Context, userID string) (usersrepo.User, error) {
	return u.w.users[userID], nil
}

func (u fakeUsers) Update(ctx context.Context, userID string, uu usersrepo.UpdateUser) (usersrepo.User, error) {
	usr := u.w.users[userID]
	if uu.UserType != nil {
		usr.UserType = uu.UserType
	}
	u.w.users[userID] = usr
	return usr, nil
}

type fakePatients struct{ w *fakeWorld }

func (p fakePatients) Create(ctx context.Context, np patientsrepo.CreatePatient) (patientsrepo.Patient, error) {
	p.w.patients = append(p.w.patients, np)
	return patientsrepo.Patient{PatientID: uuid.NewString(), UserID: np.UserID}, nil
}

type fakeDoctors struct{ w *fakeWorld }

func (d fakeDoctors) Create(ctx context.Context, nd doctorsrepo.CreateDoctor) (doctorsrepo.Doctor, error) {
	d.w.doctors = append(d.w.doctors, nd)
	return doctorsrepo.Doctor{DoctorID: uuid.NewString(), UserID: nd.UserID, LicenseNumber: nd.LicenseNumber}, nil
}

type fakeCaretakers struct{ w *fakeWorld }

func (c fakeCaretakers) Create(ctx context.Context, nc caretakersrepo.CreateCaretaker) (caretakersrepo.Caretaker, error) {
	c.w.caretakers = append(c.w.caretakers, nc)
	return caretakersrepo.Caretaker{CaretakerID: uuid.NewString(), UserID: nc.UserID}, nil
}

type fakeStaff struct{ w *fakeWorld }

func (s fakeStaff) Create(ctx context.Context, ns medicalstaffrepo.CreateStaffMember) (medicalstaffrepo.StaffMember, error) {
	s.w.staff = append(s.w.staff, ns)
	return medicalstaffrepo.StaffMember{StaffID: uuid.NewString(), UserID: ns.UserID}, nil
}

// passTran runs the function directly. Rollback behavior is exercised by
// asserting no user row changes after a failed run.
type passTran struct{}

func (passTran) WithinTran(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(w *fakeWorld) *Service {
	return NewService(logger.NewDefault("onboardingservice-test"), fakeUsers{w}, ProfileStorers{
		Patients:   fakePatients{w},
		Doctors:    fakeDoctors{w},
		Caretakers: fakeCaretakers{w},
		Staff:      fakeStaff{w},
	}, passTran{})
}

func TestOnboardPatient(t *testing.T) {
	w := newFakeWorld()
	userID := w.addUser(nil)
	svc := newTestService(w)

	bg := "O+"
	usr, err := svc.Onboard(context.Background(), userID, Choice{
		Role:    usersrepo.TypePatient,
		Patient: &patientsrepo.CreatePatient{BloodGroup: &bg},
	})
	require.NoError(t, err)
	require.NotNil(t, usr.UserType)
	require.Equal(t, usersrepo.TypePatient, *usr.UserType)

	require.Len(t, w.patients, 1)
	require.Equal(t, userID, w.patients[0].UserID)
	require.Equal(t, &bg, w.patients[0].BloodGroup)
}

func TestOnboardDoctorRequiresLicense(t *testing.T) {
	w := newFakeWorld()
	userID := w.addUser(nil)
	svc := newTestService(w)

	_, err := svc.Onboard(context.Background(), userID, Choice{Role: usersrepo.TypeDoctor})
	require.ErrorIs(t, err, ErrMissingProfile)
	require.Nil(t, w.users[userID].UserType)

	_, err = svc.Onboard(context.Background(), userID, Choice{
		Role:   usersrepo.TypeDoctor,
		Doctor: &doctorsrepo.CreateDoctor{LicenseNumber: "MD-1001"},
	})
	require.NoError(t, err)
	require.Len(t, w.doctors, 1)
	require.Equal(t, "MD-1001", w.doctors[0].LicenseNumber)
}

func TestOnboardOnlyOnce(t *testing.T) {
	w := newFakeWorld()
	userID := w.addUser(nil)
	svc := newTestService(w)

	_, err := svc.Onboard(context.Background(), userID, Choice{Role: usersrepo.TypeCaretaker})
	require.NoError(t, err)

	_, err = svc.Onboard(context.Background(), userID, Choice{Role: usersrepo.TypePatient})
	require.ErrorIs(t, err, ErrAlreadyOnboarded)
	require.Empty(t, w.patients)
}

func TestOnboardUnknownRole(t *testing.T) {
	w := newFakeWorld()
	userID := w.addUser(nil)
	svc := newTestService(w)

	_, err := svc.Onboard(context.Background(), userID, Choice{Role: "ADMIN"})
	require.ErrorIs(t, err, ErrUnknownRole)
	require.Nil(t, w.users[userID].UserType)
}
