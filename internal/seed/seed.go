// Package seed 建立示範帳號、車隊與過去數天的車輛狀態紀錄。
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/repository"
)

type account struct {
	email    string
	password string
	name     string
	role     models.UserRole
}

var accounts = []account{
	{"admin@vehicletracker.com", "admin123", "Admin User", models.RoleAdmin},
	{"user@vehicletracker.com", "user123", "Regular User", models.RoleUser},
}

// Fleet 預設車隊
var Fleet = []models.Vehicle{
	{PlateNumber: "B1234ABC", Model: "Avanza", Brand: "Toyota", Year: 2020, Status: models.VehicleActive},
	{PlateNumber: "B5678DEF", Model: "Innova", Brand: "Toyota", Year: 2021, Status: models.VehicleActive},
	{PlateNumber: "B9012GHI", Model: "Hiace", Brand: "Toyota", Year: 2019, Status: models.VehicleActive},
	{PlateNumber: "B3456JKL", Model: "Fortuner", Brand: "Toyota", Year: 2022, Status: models.VehicleMaintenance},
	{PlateNumber: "B7890MNO", Model: "Ertiga", Brand: "Suzuki", Year: 2020, Status: models.VehicleActive},
	{PlateNumber: "B2468PQR", Model: "APV", Brand: "Suzuki", Year: 2018, Status: models.VehicleActive},
	{PlateNumber: "B1357STU", Model: "Carry", Brand: "Suzuki", Year: 2021, Status: models.VehicleInactive},
	{PlateNumber: "B9753VWX", Model: "Xenia", Brand: "Daihatsu", Year: 2019, Status: models.VehicleActive},
	{PlateNumber: "B8642YZA", Model: "Terios", Brand: "Daihatsu", Year: 2020, Status: models.VehicleMaintenance},
	{PlateNumber: "B7531BCD", Model: "Grand Livina", Brand: "Nissan", Year: 2018, Status: models.VehicleActive},
	{PlateNumber: "B6420EFG", Model: "Navara", Brand: "Nissan", Year: 2022, Status: models.VehicleActive},
	{PlateNumber: "B5319HIJ", Model: "Mobilio", Brand: "Honda", Year: 2021, Status: models.VehicleActive},
	{PlateNumber: "B4208KLM", Model: "BR-V", Brand: "Honda", Year: 2019, Status: models.VehicleInactive},
	{PlateNumber: "B3197NOP", Model: "Xpander", Brand: "Mitsubishi", Year: 2020, Status: models.VehicleActive},
	{PlateNumber: "B2086QRS", Model: "L300", Brand: "Mitsubishi", Year: 2017, Status: models.VehicleMaintenance},
}

type point struct{ lat, lng float64 }

// 雅加達周邊地點
var locations = []point{
	{-6.2088, 106.8456},
	{-6.2615, 106.8106},
	{-6.1352, 106.8133},
	{-6.2250, 106.9004},
	{-6.1352, 106.8133},
	{-6.2383, 106.9756},
	{-6.4025, 106.7942},
	{-6.1781, 106.6300},
}

type Options struct {
	Days       int
	Now        time.Time
	Location   *time.Location
	Rand       *rand.Rand
	BcryptCost int
}

// Result 本次新增的資料量，已存在的帳號與車輛不會重複建立
type Result struct {
	Users    int
	Vehicles int
	Records  int
}

// Run 帳號與車輛以 email / 車牌判斷是否已存在；狀態紀錄每次執行都會新增
func Run(ctx context.Context, repos *repository.Repositories, opts Options) (*Result, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 12
	}

	var res Result
	for _, a := range accounts {
		created, err := ensureUser(ctx, repos.User, a, opts.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", a.email, err)
		}
		if created {
			res.Users++
		}
	}

	for _, v := range Fleet {
		_, err := repos.Vehicle.FindByPlate(ctx, v.PlateNumber)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		vehicle := v
		if err := repos.Vehicle.Create(ctx, &vehicle); err != nil {
			return nil, fmt.Errorf("seed vehicle %s: %w", v.PlateNumber, err)
		}
		res.Vehicles++
	}

	vehicles, err := repos.Vehicle.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := 0; i < opts.Days; i++ {
		day := opts.Now.In(opts.Location).AddDate(0, 0, -i)
		var records []models.VehicleStatusRecord
		for _, v := range vehicles {
			// 約一成的天數沒有紀錄（假日、維修）
			if opts.Rand.Float64() < 0.1 {
				continue
			}
			records = append(records, dayRecords(opts.Rand, v.ID, day)...)
		}
		if err := repos.StatusRecord.CreateMany(ctx, records); err != nil {
			return nil, fmt.Errorf("seed records for %s: %w", day.Format("2006-01-02"), err)
		}
		res.Records += len(records)
	}

	return &res, nil
}

func ensureUser(ctx context.Context, repo repository.UserRepository, a account, cost int) (bool, error) {
	_, err := repo.FindByEmail(ctx, a.email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(a.password), cost)
	if err != nil {
		return false, err
	}
	return true, repo.Create(ctx, &models.User{
		Email:    a.email,
		Password: string(hashed),
		Name:     a.name,
		Role:     a.role,
		IsActive: true,
	})
}

// dayRecords 產生單台車一天 4 到 8 筆紀錄，頭尾固定為 STOPPED
func dayRecords(rnd *rand.Rand, vehicleID string, day time.Time) []models.VehicleStatusRecord {
	count := rnd.Intn(5) + 4
	current := locations[rnd.Intn(len(locations))]
	y, m, d := day.Date()

	records := make([]models.VehicleStatusRecord, 0, count)
	for j := 0; j < count; j++ {
		var hour int
		switch {
		case j < 2:
			hour = 6 + rnd.Intn(3)
		case j < 4:
			hour = 12 + rnd.Intn(2)
		case j < 6:
			hour = 16 + rnd.Intn(3)
		default:
			hour = 20 + rnd.Intn(3)
		}
		at := time.Date(y, m, d, hour, rnd.Intn(60), 0, 0, day.Location())

		var status models.StatusType
		switch {
		case j == 0 || j == count-1:
			status = models.StatusStopped
		case rnd.Float64() < 0.3:
			status = models.StatusIdle
		default:
			status = models.StatusTrip
		}

		if status == models.StatusTrip && rnd.Float64() < 0.3 {
			current = locations[rnd.Intn(len(locations))]
		}

		lat := current.lat + (rnd.Float64()-0.5)*0.01
		lng := current.lng + (rnd.Float64()-0.5)*0.01
		speed := 0.0
		if status == models.StatusTrip {
			speed = float64(rnd.Intn(60) + 20)
		}

		records = append(records, models.VehicleStatusRecord{
			VehicleID: vehicleID,
			Status:    status,
			Latitude:  &lat,
			Longitude: &lng,
			Speed:     &speed,
			Timestamp: at.UTC(),
		})
	}
	return records
}
