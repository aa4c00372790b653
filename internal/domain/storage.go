package domain

// Keys of the durable local storage. Each key has a single owning component.
const (
	KeyIdentity    = "identity"
	KeyCart        = "cart"
	KeyAgeVerified = "age-verified"
)

// Storage is the durable local storage medium. Get reports found=false for
// an absent key; Delete of an absent key is not an error.
type Storage interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}
