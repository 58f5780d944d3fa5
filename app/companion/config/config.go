// Package config carries the wired dependencies the route registration
// needs, so main stays a straight line.
package config

import (
	"github.com/companionhealth/companion/core/repositories/addressesrepo"
	"github.com/companionhealth/companion/core/repositories/caretakersrepo"
	"github.com/companionhealth/companion/core/repositories/commentsrepo"
	"github.com/companionhealth/companion/core/repositories/doctorsrepo"
	"github.com/companionhealth/companion/core/repositories/institutionsrepo"
	"github.com/companionhealth/companion/core/repositories/journalsrepo"
	"github.com/companionhealth/companion/core/repositories/medicalstaffrepo"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/core/repositories/sessionsrepo"
	"github.com/companionhealth/companion/core/repositories/tasklistsrepo"
	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/core/repositories/vitalsrepo"
	"github.com/companionhealth/companion/core/services/authservice"
	"github.com/companionhealth/companion/core/services/onboardingservice"
	"github.com/companionhealth/companion/core/services/taskservice"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/companionhealth/companion/sdk/telemetry"
)

// Repositories bundles every repository the app wires at startup.
type Repositories struct {
	Users        *usersrepo.Repository
	Sessions     *sessionsrepo.Repository
	Addresses    *addressesrepo.Repository
	Patients     *patientsrepo.Repository
	Doctors      *doctorsrepo.Repository
	Caretakers   *caretakersrepo.Repository
	MedicalStaff *medicalstaffrepo.Repository
	Institutions *institutionsrepo.Repository
	Vitals       *vitalsrepo.Repository
	Journals     *journalsrepo.Repository
	TaskLists    *tasklistsrepo.Repository
	Tasks        *tasksrepo.Repository
	Comments     *commentsrepo.Repository
}

// Services bundles the cross-repository workflows.
type Services struct {
	Auth       *authservice.Service
	Onboarding *onboardingservice.Service
	Tasks      *taskservice.Service
}

// Companion is everything the HTTP layer needs.
type Companion struct {
	Build        string
	Logger       *logger.Logger
	Telemetry    telemetry.Telemetry
	DB           *postgresdb.Pool
	Repositories Repositories
	Services     Services
}
