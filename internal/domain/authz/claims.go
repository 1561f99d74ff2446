package authz

import "time"

// Claims es el conjunto de hechos de autorización que viaja dentro del token
// firmado. Se calcula una sola vez al emitir el token (snapshot): un cambio de
// rol o de empresa solo surte efecto en el próximo login. Esa ventana de
// staleness es una decisión aceptada, no un bug a "arreglar" con invalidación
// de caché.
type Claims struct {
	UserID    string
	Role      string // ver entity.Role*
	CompanyID string
	BranchID  string // "" únicamente cuando Role es ceo (alcance de empresa)
	IssuedAt  time.Time
}

// ResourceScope es el descriptor mínimo de pertenencia de un recurso concreto:
// su company y, cuando aplica, su branch. Lo aporta SIEMPRE el caller a partir
// de la fila que ya tiene en mano. El motor de políticas jamás consulta la
// tabla protegida para derivarlo: ese patrón (una política sobre la tabla T
// que consulta T para decidir visibilidad) produce recursión infinita.
type ResourceScope struct {
	CompanyID string
	BranchID  string // "" para recursos con alcance de empresa
}
