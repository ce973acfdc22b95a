package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to riskmap! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Map files.
	mapsPrompt := promptui.Prompt{
		Label:   "Map file patterns (comma-separated globs)",
		Default: strings.Join(DefaultMaps, ","),
	}
	mapsStr, err := mapsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("map patterns: %w", err)
	}
	if maps := splitAndTrim(mapsStr); len(maps) > 0 {
		cfg.Maps = maps
	}

	// 2. Status source.
	sourcePrompt := promptui.Select{
		Label: "Where do component statuses come from?",
		Items: []string{
			"servicenow: query the CMDB directly",
			"proxy: ask a running riskmap server",
			"offline: show every component as unknown",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("status source: %w", err)
	}

	switch sourceIdx {
	case 0:
		instancePrompt := promptui.Prompt{
			Label:    "ServiceNow instance URL",
			Validate: validateURL,
		}
		if cfg.ServiceNow.Instance, err = instancePrompt.Run(); err != nil {
			return nil, fmt.Errorf("servicenow instance: %w", err)
		}
		userPrompt := promptui.Prompt{Label: "ServiceNow username"}
		if cfg.ServiceNow.Username, err = userPrompt.Run(); err != nil {
			return nil, fmt.Errorf("servicenow username: %w", err)
		}
		fmt.Printf("\nNote: Set %sSERVICENOW__PASSWORD in your environment rather than storing the password in %s.\n", EnvPrefix, path)
	case 1:
		proxyPrompt := promptui.Prompt{
			Label:    "riskmap server URL",
			Default:  fmt.Sprintf("http://localhost:%d", cfg.Server.Port),
			Validate: validateURL,
		}
		if cfg.Status.ProxyURL, err = proxyPrompt.Run(); err != nil {
			return nil, fmt.Errorf("proxy url: %w", err)
		}
	}

	// 3. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateURL(s string) error {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("must start with http:// or https://")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("must be a number between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
