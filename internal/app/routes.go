package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/ametelin/minesweeper-agent/internal/config"
	"github.com/ametelin/minesweeper-agent/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	base := config.BasePath()

	auth := handlers.NewAuth(a.log, a.db, a.cookies, a.jwt)

	a.router.HandleFunc("POST "+base+"/register", auth.Register)
	a.router.HandleFunc("POST "+base+"/login", auth.Login)
	a.router.HandleFunc("POST "+base+"/logout", auth.Logout)
	a.router.HandleFunc("GET "+base+"/status", auth.Status)

	games := handlers.NewGames(a.log, a.db, a.cookies, a.ws, createRand())

	a.router.HandleFunc("GET "+base+"/records", games.Records)
	a.router.HandleFunc("POST "+base+"/game", games.Create)
	a.router.HandleFunc("GET "+base+"/game/{id}", games.Fetch)
	a.router.HandleFunc("POST "+base+"/game/{id}/probe", games.Probe)
	a.router.HandleFunc("POST "+base+"/game/{id}/step", games.Step)
	a.router.HandleFunc("POST "+base+"/game/{id}/auto", games.Auto)
	a.router.HandleFunc("POST "+base+"/game/{id}/forfeit", games.Forfeit)
	a.router.HandleFunc(base+"/game/{id}/connect", games.ConnectWS)
}
