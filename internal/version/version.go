// Package version exposes the build version stamped in by the linker:
//
//	go build -ldflags "-X github.com/BrokenDetector/Coupon-calendar-sub000/internal/version.Version=v1.2.0"
package version

// Version is the application version, "dev" for unstamped builds.
var Version = "dev"
