// Package service is the layer the transports talk to.
//
// GameService looks sessions up by id, runs moves and menu selections on
// them and returns results together with a fresh state snapshot. Errors
// are wrapped with samber/oops so they carry the session, map or move they
// concern; the underlying sentinels (session.ErrSessionNotFound,
// config.ErrMapNotFound, ...) still match with errors.Is.
//
// Usage:
//
//	sessions := session.NewManager(session.WithLogger(log))
//	maps, _ := config.NewManager("maps", log)
//	svc := service.NewGameService(sessions, maps, log)
//
//	info, err := svc.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := svc.Move(ctx, info.ID, "up")
package service
