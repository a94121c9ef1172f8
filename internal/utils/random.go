package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/planta-aurora/backoffice/backend/internal/attendance"
	"github.com/planta-aurora/backoffice/backend/internal/domain"
	"github.com/planta-aurora/backoffice/backend/internal/rut"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"María", "José", "Juan", "Ana", "Luis", "Carmen", "Pedro", "Rosa",
	"Carlos", "Patricia", "Jorge", "Claudia", "Manuel", "Francisca",
	"Diego", "Camila", "Felipe", "Valentina", "Sebastián", "Javiera",
}
var commonSurnames = []string{
	"González", "Muñoz", "Rojas", "Díaz", "Pérez", "Soto", "Contreras",
	"Silva", "Martínez", "Sepúlveda", "Morales", "Rodríguez", "López",
	"Fuentes", "Hernández", "Torres", "Araya", "Flores", "Espinoza", "Valenzuela",
}

func GenerateRandomFullName() string {
	return commonFirstNames[rand.Intn(len(commonFirstNames))] + " " +
		commonSurnames[rand.Intn(len(commonSurnames))] + " " +
		commonSurnames[rand.Intn(len(commonSurnames))]
}

var roles = []domain.Role{
	domain.RoleGuard,
	domain.RoleSupervisor,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

// GenerateUsernameFromFullName arma un usuario tipo "jsoto123": inicial
// del nombre, primer apellido sin tildes y algunos dígitos.
func GenerateUsernameFromFullName(fullName string) string {
	parts := strings.Fields(attendance.Fold(fullName))
	username := ""
	if len(parts) > 0 {
		username += strings.ToLower(parts[0][:1])
	}
	if len(parts) > 1 {
		username += strings.ToLower(parts[1])
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomRUT devuelve un RUT sintáctica y aritméticamente válido
// en forma canónica.
func GenerateRandomRUT() string {
	body := fmt.Sprintf("%d", rand.Intn(18000000)+5000000)
	return body + rut.CheckDigit(body)
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

var areas = []string{"PACKING", "FRIGORÍFICO", "PRODUCCIÓN", "BODEGA", "ADMINISTRACIÓN"}
var positions = []string{"OPERARIO", "OPERARIA", "JEFE DE LÍNEA", "SUPERVISOR", "AUXILIAR"}
var shiftLabels = []string{"LUN-VIE 08:00 A 17:00", "TURNO NOCHE", "TURNO ROTATIVO", "LUN-SAB 07:30 A 16:30"}

func GenerateRandomWorker() *domain.Worker {
	fullName := GenerateRandomFullName()
	return &domain.Worker{
		RUT:        GenerateRandomRUT(),
		FullName:   strings.ToUpper(fullName),
		Area:       areas[rand.Intn(len(areas))],
		Section:    fmt.Sprintf("SECCIÓN %d", rand.Intn(5)+1),
		Position:   positions[rand.Intn(len(positions))],
		ShiftLabel: shiftLabels[rand.Intn(len(shiftLabels))],
		Status:     domain.WorkerStatusActive,
	}
}

var plateLetters = "BCDFGHJKLPRSTVWXYZ"

// GenerateRandomPlate devuelve una patente chilena formato nuevo (BBBB12).
func GenerateRandomPlate() string {
	plate := make([]byte, 0, 6)
	for i := 0; i < 4; i++ {
		plate = append(plate, plateLetters[rand.Intn(len(plateLetters))])
	}
	for i := 0; i < 2; i++ {
		plate = append(plate, digits[rand.Intn(len(digits))])
	}
	return string(plate)
}

var vehicleKinds = []domain.VehicleKind{
	domain.VehicleBus,
	domain.VehicleMinibus,
	domain.VehicleVan,
	domain.VehicleCar,
	domain.VehiclePickup,
}

var vehicleCapacities = map[domain.VehicleKind]int{
	domain.VehicleBus:     45,
	domain.VehicleMinibus: 20,
	domain.VehicleVan:     12,
	domain.VehicleCar:     4,
	domain.VehiclePickup:  4,
}

func GenerateRandomVehicle() *domain.Vehicle {
	kind := vehicleKinds[rand.Intn(len(vehicleKinds))]
	return &domain.Vehicle{
		Plate:    GenerateRandomPlate(),
		Kind:     kind,
		Brand:    []string{"MERCEDES BENZ", "HYUNDAI", "TOYOTA", "PEUGEOT"}[rand.Intn(4)],
		Model:    fmt.Sprintf("MODELO %d", rand.Intn(10)+2015),
		Capacity: vehicleCapacities[kind],
		BaseFare: (rand.Intn(8) + 2) * 10000,
		Active:   true,
	}
}

func GenerateRandomDriver() *domain.Driver {
	return &domain.Driver{
		Name:     GenerateRandomFullName(),
		RUT:      GenerateRandomRUT(),
		Phone:    fmt.Sprintf("+569%08d", rand.Intn(100000000)),
		External: rand.Intn(2) == 0,
		Active:   true,
	}
}

var routeStops = []string{"PLANTA AURORA", "SAN FELIPE", "LOS ANDES", "PUTAENDO", "PANQUEHUE", "CATEMU"}

func GenerateRandomRoute() *domain.Route {
	origin := routeStops[rand.Intn(len(routeStops))]
	destination := routeStops[rand.Intn(len(routeStops))]
	for destination == origin {
		destination = routeStops[rand.Intn(len(routeStops))]
	}
	return &domain.Route{
		Name:        origin + " - " + destination,
		Origin:      origin,
		Destination: destination,
		Active:      true,
	}
}
