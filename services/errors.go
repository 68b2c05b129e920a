package services

import "errors"

// Validation failures returned to the immediate caller. Handlers surface
// these as 4xx responses; none of them are fatal or retried.
var (
	ErrInvalidAmount      = errors.New("amount must be a positive integer")
	ErrAlreadyUnlocked    = errors.New("skill already unlocked")
	ErrPrerequisiteNotMet = errors.New("mission prerequisite for this skill not met")
	ErrInsufficientFunds  = errors.New("not enough points")
	ErrMaxLevelReached    = errors.New("perk already at max level")
	ErrLevelTooLow        = errors.New("level 50 required to ascend")
	ErrUnknownFeature     = errors.New("unknown feature id")
	ErrNotEntitled        = errors.New("feature not available on current plan")
	ErrMissionNotFound    = errors.New("mission not found")
	ErrAlreadyCompleted   = errors.New("mission already completed")
	ErrLessonCapReached   = errors.New("daily lesson limit reached")
	ErrBossOnCooldown     = errors.New("boss attack on cooldown")
	ErrBossDefeated       = errors.New("boss already defeated this window")
)
