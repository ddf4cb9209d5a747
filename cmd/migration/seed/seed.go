package seed

import (
	"fmt"
	"time"

	"roomflow/config"
	. "roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed loads a small working hotel for development: staff accounts, one
// floor of rooms, the public zones, and the standard checklist templates.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	if err := seedUsers(db, log); err != nil {
		return err
	}
	if err := seedRooms(db, log); err != nil {
		return err
	}
	if err := seedZones(db, log); err != nil {
		return err
	}
	if err := seedChecklistTemplates(db, log); err != nil {
		return err
	}
	if err := seedBookings(db, config, log); err != nil {
		return err
	}

	return nil
}

func seedUsers(db *gorm.DB, log logger.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	users := []User{
		{FirstName: "Admin", LastName: "User", Email: "admin@example.com", Role: RoleAdmin},
		{FirstName: "Marta", LastName: "Osei", Email: "manager@example.com", Role: RoleManager},
		{FirstName: "Felix", LastName: "Brand", Email: "frontdesk@example.com", Role: RoleFrontDesk},
		{FirstName: "Ines", LastName: "Duarte", Email: "ines@example.com", Role: RoleHousekeeper},
		{FirstName: "Youssef", LastName: "Amrani", Email: "youssef@example.com", Role: RoleHousekeeper},
		{FirstName: "Petra", LastName: "Kovacs", Email: "petra@example.com", Role: RoleHousekeeper},
	}

	for _, user := range users {
		user.PasswordHash = string(hash)
		user.IsActive = true

		var existing User
		if err := db.First(&existing, "email = ?", user.Email).Error; err == nil {
			log.Info("User already exists", "email", user.Email)
			continue
		}
		log.Info("Seeding user", "email", user.Email, "role", user.Role)
		if err := db.Create(&user).Error; err != nil {
			log.Er("failed to create user", err, "email", user.Email)
		}
	}

	return nil
}

func seedRooms(db *gorm.DB, log logger.Logger) error {
	types := []RoomType{
		{Name: "Single", Capacity: 1},
		{Name: "Double", Capacity: 2},
		{Name: "Family Suite", Capacity: 5},
	}

	for i := range types {
		var existing RoomType
		if err := db.First(&existing, "name = ?", types[i].Name).Error; err == nil {
			types[i] = existing
			continue
		}
		if err := db.Create(&types[i]).Error; err != nil {
			log.Er("failed to create room type", err, "name", types[i].Name)
		}
	}

	for floor := 1; floor <= 2; floor++ {
		for n := 1; n <= 6; n++ {
			number := fmt.Sprintf("%d%02d", floor, n)
			roomType := types[n%len(types)]

			var existing Room
			if err := db.First(&existing, "number = ?", number).Error; err == nil {
				continue
			}
			room := Room{
				Number:     number,
				Floor:      floor,
				RoomTypeID: &roomType.ID,
				Status:     RoomFree,
			}
			if err := db.Create(&room).Error; err != nil {
				log.Er("failed to create room", err, "number", number)
			}
		}
	}

	return nil
}

func seedZones(db *gorm.DB, log logger.Logger) error {
	zones := []string{"Lobby", "Restaurant", "Pool", "Gym", "Conference Wing"}

	for _, name := range zones {
		var existing Zone
		if err := db.First(&existing, "name = ?", name).Error; err == nil {
			continue
		}
		if err := db.Create(&Zone{Name: name, Status: ZoneDirty}).Error; err != nil {
			log.Er("failed to create zone", err, "name", name)
		}
	}

	return nil
}

// seedBookings gives the generator something to work with on day one: a
// stayover spanning today, a departure leaving today, and an arrival with a
// large group tomorrow.
func seedBookings(db *gorm.DB, config config.Config, log logger.Logger) error {
	var count int64
	if err := db.Model(&Booking{}).Count(&count).Error; err != nil {
		return log.Err("failed to count bookings", err)
	}
	if count > 0 {
		log.Info("Bookings already exist, skipping", "count", count)
		return nil
	}

	loc, err := time.LoadLocation(config.HotelTimezone)
	if err != nil {
		return log.Err("failed to load hotel timezone", err)
	}
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var rooms []Room
	if err := db.Order("number").Limit(3).Find(&rooms).Error; err != nil {
		return log.Err("failed to load rooms for bookings", err)
	}
	if len(rooms) < 3 {
		log.Warn("Not enough rooms to seed bookings", "found", len(rooms))
		return nil
	}

	bookings := []Booking{
		{
			RoomID:     &rooms[0].ID,
			CheckIn:    today.AddDate(0, 0, -2).Add(15 * time.Hour),
			CheckOut:   today.AddDate(0, 0, 2).Add(11 * time.Hour),
			GuestCount: 2,
			Status:     BookingInProgress,
		},
		{
			RoomID:     &rooms[1].ID,
			CheckIn:    today.AddDate(0, 0, -3).Add(16 * time.Hour),
			CheckOut:   today.Add(10 * time.Hour),
			GuestCount: 1,
			Status:     BookingInProgress,
		},
		{
			RoomID:     &rooms[2].ID,
			CheckIn:    today.AddDate(0, 0, 1).Add(14 * time.Hour),
			CheckOut:   today.AddDate(0, 0, 4).Add(11 * time.Hour),
			GuestCount: 4,
			Status:     BookingReserved,
		},
	}

	for _, booking := range bookings {
		log.Info("Seeding booking", "room", booking.RoomID, "checkIn", booking.CheckIn)
		if err := db.Create(&booking).Error; err != nil {
			log.Er("failed to create booking", err)
		}
	}

	return nil
}

func seedChecklistTemplates(db *gorm.DB, log logger.Logger) error {
	templates := []ChecklistTemplate{
		{
			Name: "Departure standard", CleaningType: CleaningDeparture,
			PeriodDays: 1, OffsetDays: 0,
			Items: []ChecklistItem{
				{Text: "Strip and remake beds", SortOrder: 1},
				{Text: "Clean bathroom", SortOrder: 2},
				{Text: "Vacuum and mop floors", SortOrder: 3},
				{Text: "Restock minibar and amenities", SortOrder: 4},
				{Text: "Check for left-behind items", SortOrder: 5},
			},
		},
		{
			Name: "Stayover refresh", CleaningType: CleaningStayover,
			PeriodDays: 1, OffsetDays: 1,
			Items: []ChecklistItem{
				{Text: "Make beds", SortOrder: 1},
				{Text: "Replace used towels", SortOrder: 2},
				{Text: "Empty bins", SortOrder: 3},
			},
		},
		{
			Name: "Stayover linen change", CleaningType: CleaningStayover,
			PeriodDays: 3, OffsetDays: 3,
			Items: []ChecklistItem{
				{Text: "Change bed linen", SortOrder: 1},
				{Text: "Deep clean bathroom", SortOrder: 2},
			},
		},
		{
			Name: "Pre-arrival group prep", CleaningType: CleaningPreArrival,
			PeriodDays: 1, OffsetDays: 0,
			Items: []ChecklistItem{
				{Text: "Add extra beds and bedding", SortOrder: 1},
				{Text: "Double towel set", SortOrder: 2},
				{Text: "Verify room inspection", SortOrder: 3},
			},
		},
		{
			Name: "Public area daily", CleaningType: CleaningPublicArea,
			PeriodDays: 1, OffsetDays: 0,
			Items: []ChecklistItem{
				{Text: "Vacuum carpets and mop hard floors", SortOrder: 1},
				{Text: "Wipe surfaces and handrails", SortOrder: 2},
				{Text: "Empty bins", SortOrder: 3},
			},
		},
		{
			Name: "Public area weekly windows", CleaningType: CleaningPublicArea,
			PeriodDays: 7, OffsetDays: 0,
			Items: []ChecklistItem{
				{Text: "Clean all windows", SortOrder: 1},
				{Text: "Polish brass fittings", SortOrder: 2},
			},
		},
	}

	for _, template := range templates {
		var existing ChecklistTemplate
		if err := db.First(&existing, "name = ?", template.Name).Error; err == nil {
			log.Info("Template already exists", "name", template.Name)
			continue
		}
		log.Info("Seeding checklist template", "name", template.Name)
		if err := db.Create(&template).Error; err != nil {
			log.Er("failed to create template", err, "name", template.Name)
		}
	}

	return nil
}
