// Package services contains server-side business logic: account
// registration and login (UserService) and per-user job application
// management with cached stats (JobService).
package services
