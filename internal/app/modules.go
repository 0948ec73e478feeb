package app

import (
	"github.com/specialistvlad/dispatchgrid/internal/handlers"
	"github.com/specialistvlad/dispatchgrid/modules/checks"
	"github.com/specialistvlad/dispatchgrid/modules/env_vars"
	"github.com/specialistvlad/dispatchgrid/modules/print"
	"github.com/specialistvlad/dispatchgrid/modules/show"
)

// coreModules is the definitive list of all modules that are compiled into
// the dispatchgrid binary.
var coreModules = []handlers.Module{
	&checks.Module{},
	&env_vars.Module{},
	&print.Module{},
	&show.Module{},
}
