package repository

import "fleet_tracker/internal/storage"

type Repositories struct {
	User         UserRepository
	Vehicle      VehicleRepository
	StatusRecord StatusRecordRepository
}

func NewRepositories(db *storage.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Vehicle:      NewVehicleRepository(db),
		StatusRecord: NewStatusRecordRepository(db),
	}
}
