package korfball_client

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	// Default base URL for a local match server
	DefaultBaseURL = "http://localhost:8080"

	// API Endpoints
	GamesEndpoint = "/api/games"

	timerStartAction      = "start"
	timerPauseAction      = "pause"
	timerNextPeriodAction = "next-period"
	timerResetMatchAction = "reset-match"
)

func gamePath(gameID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", GamesEndpoint, gameID)
}

func timerPath(gameID uuid.UUID) string {
	return gamePath(gameID) + "/timer"
}

func timerActionPath(gameID uuid.UUID, action string) string {
	return fmt.Sprintf("%s/%s", timerPath(gameID), action)
}

func possessionsPath(gameID uuid.UUID) string {
	return gamePath(gameID) + "/possessions"
}

func activePossessionPath(gameID uuid.UUID) string {
	return possessionsPath(gameID) + "/active"
}

func incrementPossessionPath(gameID, possessionID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/increment", possessionsPath(gameID), possessionID)
}

func shotsPath(gameID uuid.UUID) string {
	return gamePath(gameID) + "/shots"
}

func shotPath(gameID, shotID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", shotsPath(gameID), shotID)
}

func rosterPath(gameID uuid.UUID) string {
	return gamePath(gameID) + "/roster"
}

func eventsPath(gameID uuid.UUID) string {
	return gamePath(gameID) + "/events"
}
