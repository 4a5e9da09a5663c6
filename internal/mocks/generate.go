// Package mocks provides gomock implementations of the console's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	entries := mocks.NewMockEntryStore(ctrl)
//	entries.EXPECT().Get(gomock.Any(), "scope", "token", "user").Return(nil, errBoom)
package mocks

// Generate mock for EntryStore interface from internal/ports package.
// This creates MockEntryStore with methods Get, Put, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=entry_store_mock.go github.com/target/crms-console/internal/ports EntryStore
