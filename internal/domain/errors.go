package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated indicates a call that requires a logged-in user and token.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrEmptyCart indicates an order was attempted from an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNoRestaurant indicates no active restaurant is selected.
	ErrNoRestaurant = errors.New("no restaurant selected")
	// ErrRestaurantMismatch indicates an add from a different restaurant
	// than the cart's current one, pending an explicit replace confirmation.
	ErrRestaurantMismatch = errors.New("item belongs to a different restaurant")
	// ErrUnknownRestaurant indicates an item whose restaurant id could not be resolved.
	ErrUnknownRestaurant = errors.New("item has no restaurant")
	// ErrSubmissionInFlight indicates a duplicate submit while a network call is pending.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrInvalidTransition indicates a checkout action that is not legal from the current step.
	ErrInvalidTransition = errors.New("invalid checkout transition")
)
