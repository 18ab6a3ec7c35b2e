package service

import "errors"

var (
	ErrNotFound        = errors.New("phrase not found")
	ErrUnauthorized    = errors.New("unauthorized: phrase does not belong to user")
	ErrSessionNotFound = errors.New("sync session not found or expired")
	ErrSyncInProgress  = errors.New("another sync is already in progress for this user")
)
