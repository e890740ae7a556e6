// token emite un JWT firmado con JWT_SECRET para llamar a la API.
//
// Uso: go run ./cmd/token <userID> [planner|viewer]
// El rol por defecto es viewer.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/stock-allocator/pkg/config"
	"github.com/jhoicas/stock-allocator/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: token <userID> [planner|viewer]")
		os.Exit(2)
	}
	userID := os.Args[1]
	role := jwt.RoleViewer
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	if role != jwt.RolePlanner && role != jwt.RoleViewer {
		fmt.Fprintf(os.Stderr, "Rol desconocido: %q\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	token, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
