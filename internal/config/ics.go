package config

import "fmt"

type ICSConfig struct {
	CompanyName string
	ProductName string
	Version     string
	Language    string
}

// BuildProdID renders the PRODID line stamped on generated calendars.
func (cfg *ICSConfig) BuildProdID() string {
	if cfg.Version != "" {
		return fmt.Sprintf("-//%s//%s %s//%s",
			cfg.CompanyName, cfg.ProductName, cfg.Version, cfg.Language)
	}
	return fmt.Sprintf("-//%s//%s//%s",
		cfg.CompanyName, cfg.ProductName, cfg.Language)
}
