package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.vocdoni.io/dvote/log"

	"github.com/catalyst-tools/regnode/registrar"
	"github.com/catalyst-tools/regnode/types"
)

// API allows external requests to the Node
type API struct {
	r   *gin.Engine
	reg *registrar.Registrar
}

// New returns a new API with the endpoints, without starting to listen
func New(reg *registrar.Registrar) (*API, error) {
	if reg == nil {
		return nil, fmt.Errorf("Can not create the API without an active" +
			" Registrar. Use --help to see the list of available flags.")
	}

	a := API{reg: reg}

	r := gin.Default()

	r.POST("/registrations", a.postRegistration)
	r.GET("/registrations", a.getRegistrations)
	r.GET("/registrations/:votekey", a.getRegistrationsByVoteKey)

	a.r = r

	return &a, nil
}

// Serve serves the API at the given port
func (a *API) Serve(port string) error {
	return a.r.Run(":" + port)
}

// Router returns the underlying gin router; used by the tests
func (a *API) Router() http.Handler {
	return a.r
}

type errorMsg struct {
	Message string `json:"message"`
}

func returnErr(c *gin.Context, err error) {
	log.Warnw("HTTP API Bad request error", "err", err)
	c.JSON(http.StatusBadRequest, errorMsg{
		Message: err.Error(),
	})
}

func (a *API) postRegistration(c *gin.Context) {
	var d newRegistrationReq
	err := c.ShouldBindJSON(&d)
	if err != nil {
		returnErr(c, err)
		return
	}

	reg, err := a.reg.AddRegistration(d.Metadata)
	if err != nil {
		returnErr(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

func (a *API) getRegistrations(c *gin.Context) {
	regs, err := a.reg.Registrations()
	if err != nil {
		returnErr(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

func (a *API) getRegistrationsByVoteKey(c *gin.Context) {
	voteKey, err := types.HexToVoteKey(c.Param("votekey"))
	if err != nil {
		returnErr(c, err)
		return
	}
	regs, err := a.reg.RegistrationsByVoteKey(voteKey)
	if err != nil {
		returnErr(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}
