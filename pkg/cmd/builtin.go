package cmd

// import built-in strategies
import (
	_ "github.com/c9s/barfeed/pkg/strategy/smacross"
)
