package integration_test

const (
	TestUserId       = "user-1"
	TestUserEmail    = "an@example.com"
	TestUserPassword = "Test123!@#"
	TestUserFullName = "An Nguyen"
	TestUserToken    = "upstream-user-token"

	TestServiceToken = "upstream-service-token"

	TestShowtimeId  = "st-1"
	TestMovieTitle  = "Dune: Part Two"
	TestCinemaName  = "CineX Landmark"
	TestComboId     = "combo-1"
	TestComboPrice  = 89000
	TestSeatPrice   = 100000
	TestVipPrice    = 150000
	TestCouplePrice = 200000

	sessionCookieName = "session_id"
)
