// Package mocks provides centralized mock implementations for testing.
//
// Two styles live here. Function-field mocks (MockUserStore,
// MockPasswordHasher, MockTokenIssuer, MockUserService, MockTaskService) fall
// back to simple default behavior when a field is nil, which keeps handler
// tests short. Testify mocks (TestifyMockUserStore, TestifyMockTaskStore)
// record calls for tests that assert on exact interactions.
//
//	hasher := &mocks.MockPasswordHasher{
//	    VerifyFn: func(secret, verifier string) bool { return false },
//	}
package mocks
