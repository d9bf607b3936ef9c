package handler

import "pitchvault/internal/service"

type Handlers struct {
	Agreement    *AgreementHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Agreement:    NewAgreementHandler(services.Agreement),
		Notification: NewNotificationHandler(services.Notification, services.Stream),
	}
}
