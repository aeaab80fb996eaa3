// Command vcdemo serves a small HTTP demo that builds and validates a
// verifiable presentation.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("vcdemo failed")
		os.Exit(1)
	}
}
