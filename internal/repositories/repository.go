package repositories

type Repository struct {
	User              UserRepository
	Room              RoomRepository
	Zone              ZoneRepository
	Booking           BookingRepository
	Task              TaskRepository
	ChecklistTemplate ChecklistTemplateRepository
	PushToken         PushTokenRepository
	Notification      NotificationRepository
}

func New() Repository {
	return Repository{
		User:              NewUserRepository(),
		Room:              NewRoomRepository(),
		Zone:              NewZoneRepository(),
		Booking:           NewBookingRepository(),
		Task:              NewTaskRepository(),
		ChecklistTemplate: NewChecklistTemplateRepository(),
		PushToken:         NewPushTokenRepository(),
		Notification:      NewNotificationRepository(),
	}
}
