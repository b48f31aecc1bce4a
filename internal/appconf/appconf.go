// Package appconf holds settings shared by every layer of the application.
package appconf

import "fmt"

// Environment is the operating environment the process runs in.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the --env flag value to an Environment.
func EnvFlagToEnvironment(env string) (Environment, error) {
	switch env {
	case "development", "":
		return Development, nil
	case "test":
		return Test, nil
	case "production":
		return Production, nil
	default:
		return Development, fmt.Errorf("unknown environment %q (development|test|production)", env)
	}
}
