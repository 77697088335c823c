package providers

import (
	"github.com/ynmsafety/ynmops/internal/providers/extract"
	"github.com/ynmsafety/ynmops/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	extract.Module,
	pdf.Module,
)
