package app

import "github.com/bill8575/e-learning/internal/logger"

// logNavigator stands in for the front end's router: it records where
// the UI should go in response to lifecycle events. A fresh login lands
// on home, a logout on the login screen; restores never navigate.
type logNavigator struct{}

func (logNavigator) Home() {
	logger.Info("navigate", map[string]any{"target": "/"})
}

func (logNavigator) LoginScreen() {
	logger.Info("navigate", map[string]any{"target": "/auth"})
}
