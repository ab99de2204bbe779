package db

import "time"

const (
	maxConnectionRetries = 5
	connectionRetrySleep = 2 * time.Second
)
