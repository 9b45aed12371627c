package docs

// @title           Fastlane Navigation API
// @version         1.0
// @description     Trip planning with a speed boost, drive simulation, snapshot streaming and drive events.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from POST /auth/token.
