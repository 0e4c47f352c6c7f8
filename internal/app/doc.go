// Package app wires the Superstore Analytics server together and manages
// its lifecycle.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//  1. Load configuration from defaults, file, and environment
//  2. Initialize logging and OpenTelemetry
//  3. Create the dataset and health services
//  4. Set up HTTP handlers and middleware
//  5. Configure the HTTP server
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication(configPath, frontendFS)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run loads the dataset, starts the listener, and blocks until SIGINT or
// SIGTERM, then drains in-flight requests before returning. A dataset that
// fails validation refuses startup.
//
// All initialization errors are returned to the caller. The package never
// calls os.Exit directly, the main function controls the exit process.
package app
