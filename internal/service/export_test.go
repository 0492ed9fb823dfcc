package service

import "time"

// Test hooks for injecting deterministic clocks from external test packages.

func SetSessionClock(s *SessionService, now func() time.Time) { s.now = now }

func SetClaimsClock(s *ClaimsService, now func() time.Time) { s.now = now }

func SetProfileClock(s *ProfileService, now func() time.Time) { s.now = now }
