package services

import (
	"fmt"

	"casino-miniapp-gateway/internal/models"
)

// NavigationService is the sole authority for which top-level screen a
// session sees. The stack logic itself lives in models.NavigationState;
// this wraps it with per-session persistence.
type NavigationService struct {
	store *RedisService
}

func NewNavigationService(store *RedisService) *NavigationService {
	return &NavigationService{store: store}
}

func (s *NavigationService) NavigateTo(sessionID string, screen models.Screen) (*models.NavigationState, error) {
	if !models.ValidScreen(screen) {
		return nil, fmt.Errorf("unknown screen: %s", screen)
	}

	nav, err := s.store.GetNavigation(sessionID)
	if err != nil {
		return nil, err
	}

	nav.NavigateTo(screen)

	if err := s.store.StoreNavigation(sessionID, nav); err != nil {
		return nil, err
	}
	return nav, nil
}

func (s *NavigationService) GoBack(sessionID string) (*models.NavigationState, error) {
	nav, err := s.store.GetNavigation(sessionID)
	if err != nil {
		return nil, err
	}

	nav.GoBack()

	if err := s.store.StoreNavigation(sessionID, nav); err != nil {
		return nil, err
	}
	return nav, nil
}

func (s *NavigationService) State(sessionID string) (*models.NavigationState, error) {
	return s.store.GetNavigation(sessionID)
}

// Reset re-anchors the stack, used by explicit transition handlers such as
// registration success moving the session onto main.
func (s *NavigationService) Reset(sessionID string, screen models.Screen) (*models.NavigationState, error) {
	nav := &models.NavigationState{Current: screen, Stack: []models.Screen{screen}}
	if err := s.store.StoreNavigation(sessionID, nav); err != nil {
		return nil, err
	}
	return nav, nil
}
