package providers

import "time"

// shutdownTimeout bounds the graceful shutdown of any single subsystem.
const shutdownTimeout = 30 * time.Second
