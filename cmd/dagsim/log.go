package main

import (
	"github.com/dagcore/dagd/infrastructure/logger"
	"github.com/dagcore/dagd/util/panics"
)

var log = logger.RegisterSubSystem("DSIM")
var spawn = panics.GoroutineWrapperFunc(log)
