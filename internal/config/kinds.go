package config

import (
	_ "github.com/any-hub/any-store/internal/catalog/counter"
	_ "github.com/any-hub/any-store/internal/catalog/journal"
)
