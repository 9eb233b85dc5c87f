package daemon

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hat-tools/upshat/pkg/ups"
	"github.com/hat-tools/upshat/pkg/version"
)

// abortTelemetryError maps the core's error taxonomy onto HTTP: a transport
// failure means the chip could not be reached (bad gateway), a decode anomaly
// means the chip answered something implausible (internal error). The
// distinction survives the wire through the status code.
func abortTelemetryError(c *gin.Context, err error) {
	var te *ups.TransportError
	if errors.As(err, &te) {
		c.IndentedJSON(http.StatusBadGateway, err.Error())
		_ = c.AbortWithError(http.StatusBadGateway, err)
		return
	}
	c.IndentedJSON(http.StatusInternalServerError, err.Error())
	_ = c.AbortWithError(http.StatusInternalServerError, err)
}

func getBatteryState(c *gin.Context) {
	st, err := upsConn.GetBatteryState()
	if err != nil {
		abortTelemetryError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, st)
}

func getPowerState(c *gin.Context) {
	st, err := upsConn.GetPowerState()
	if err != nil {
		abortTelemetryError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, st)
}

func getCellVoltage(c *gin.Context) {
	cv, err := upsConn.GetCellVoltage()
	if err != nil {
		abortTelemetryError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, cv)
}

func getVBus(c *gin.Context) {
	st, err := upsConn.GetUSBCVBus()
	if err != nil {
		abortTelemetryError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, st)
}

func getCommunicationState(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, upsConn.GetCommunicationState())
}

func getSoftwareRevision(c *gin.Context) {
	rev, err := upsConn.GetSoftwareRevision()
	if err != nil {
		abortTelemetryError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, rev)
}

func getBatteryLow(c *gin.Context) {
	low, err := upsConn.IsBatteryLow()
	if err != nil {
		abortTelemetryError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, low)
}

func getPowerOffPending(c *gin.Context) {
	pending, err := upsConn.IsPowerOffPending()
	if err != nil {
		abortTelemetryError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, pending)
}

func putPowerOff(c *gin.Context) {
	st, err := upsConn.ForcePowerOff()
	if err != nil {
		abortTelemetryError(c, err)
		return
	}

	logrus.Warnf("power-off %s: power will be cut in 30 seconds", st)
	c.IndentedJSON(http.StatusCreated,
		fmt.Sprintf("power-off %s: power will be cut 30 seconds after arming", st))
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
