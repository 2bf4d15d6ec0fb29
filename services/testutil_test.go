package services

import (
	"testing"
	"time"

	"staybook-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// One connection, or every pooled conn would get its own :memory: db.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.Booking{},
		&models.Payment{},
		&models.LoyaltyAccount{},
		&models.PointsTransaction{},
		&models.LoyaltyShortfall{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedHotel(t *testing.T, db *gorm.DB, rooms int, price float64) models.Hotel {
	t.Helper()
	hotel := models.Hotel{Name: "Test Hotel", City: "Testville", TotalRooms: rooms, PricePerNight: price}
	if err := db.Create(&hotel).Error; err != nil {
		t.Fatalf("seed hotel: %v", err)
	}
	return hotel
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{FullName: "Test User", Email: role + "@test.local", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedLoyaltyAccount(t *testing.T, db *gorm.DB, userID uint, balance, totalEarned int) models.LoyaltyAccount {
	t.Helper()
	account := models.LoyaltyAccount{
		UserID:            userID,
		PointsBalance:     balance,
		TotalPointsEarned: totalEarned,
		LastUpdated:       time.Now().UTC(),
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seed loyalty account: %v", err)
	}
	return account
}

func seedBooking(t *testing.T, db *gorm.DB, hotelID uint, status string, rooms int, checkIn, checkOut time.Time) models.Booking {
	t.Helper()
	booking := models.Booking{
		ReferenceCode:  "BK-TEST-" + checkIn.Format("20060102") + status + time.Now().Format("150405.000000000"),
		HotelID:        hotelID,
		GuestName:      "Seed Guest",
		GuestEmail:     "seed@test.local",
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Nights:         StayNights(checkIn, checkOut),
		NumberOfGuests: rooms * 2,
		RoomsReserved:  rooms,
		Status:         status,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
