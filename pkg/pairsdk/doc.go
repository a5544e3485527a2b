// Package pairsdk is a typed client for the FaceID pairing service.
//
// It mirrors the service's HTTP surface: the PC side creates sessions and
// polls them, the phone side starts and finishes ceremonies. Errors come
// back as *PairingError values carrying the service's error code.
package pairsdk
