package handler

import (
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
)

var (
	authHandler        *AuthHandler
	userHandler        *UserHandler
	customerHandler    *CustomerHandler
	doctorHandler      *DoctorHandler
	specialtyHandler   *SpecialtyHandler
	appointmentHandler *AppointmentHandler
	reviewHandler      *ReviewHandler
	adminHandler       *AdminHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	customerUseCase *usecase.CustomerUseCase,
	doctorUseCase *usecase.DoctorUseCase,
	specialtyUseCase *usecase.SpecialtyUseCase,
	appointmentUseCase *usecase.AppointmentUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	adminUseCase *usecase.AdminUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	customerHandler = NewCustomerHandler(customerUseCase)
	doctorHandler = NewDoctorHandler(doctorUseCase, customerUseCase)
	specialtyHandler = NewSpecialtyHandler(specialtyUseCase)
	appointmentHandler = NewAppointmentHandler(appointmentUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	adminHandler = NewAdminHandler(adminUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetCustomerHandler() *CustomerHandler {
	return customerHandler
}

func GetDoctorHandler() *DoctorHandler {
	return doctorHandler
}

func GetSpecialtyHandler() *SpecialtyHandler {
	return specialtyHandler
}

func GetAppointmentHandler() *AppointmentHandler {
	return appointmentHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}
