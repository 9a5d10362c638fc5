package services

import "time"

func SetOrderClock(s *OrderService, now func() time.Time) { s.now = now }

func SetOrderOTP(s *OrderService, otp func() (string, error)) { s.otp = otp }

func SetAdminClock(s *AdminService, now func() time.Time) { s.now = now }

func SetTokenDuration(s *AuthService, d time.Duration) { s.tokenDurat = d }
