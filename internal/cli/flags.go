package cli

import "testbridge/internal/config"

// Flags holds command-line flags
type Flags struct {
	ConfigFile string
	Project    string
	LogLevel   string
	Input      string
	Filter     string
	Print      bool
	UsePipe    bool
	NewUUID    bool
	Keep       bool
	NoProgress bool
	Port       int
	Listen     string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile: f.ConfigFile,
		Project:    f.Project,
		LogLevel:   f.LogLevel,
		Input:      f.Input,
		Filter:     f.Filter,
		Print:      f.Print,
		UsePipe:    f.UsePipe,
		NewUUID:    f.NewUUID,
		Keep:       f.Keep,
		NoProgress: f.NoProgress,
		Port:       f.Port,
		Listen:     f.Listen,
	}
}
