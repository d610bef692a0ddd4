package pose

import "fmt"

// Skeleton slots within a composite character.
const (
	SkeletonCharacter = 0
	SkeletonMainHand  = 1
	SkeletonOffHand   = 2
)

// BoneAddress identifies one bone within one partial skeleton of a
// (possibly composite) skeleton instance.
//
// BoneAddress is comparable and is used directly as a map key.
type BoneAddress struct {
	Skeleton int
	Partial  int
	Name     string
}

// Addr is shorthand for a character-body bone address.
func Addr(partial int, name string) BoneAddress {
	return BoneAddress{Skeleton: SkeletonCharacter, Partial: partial, Name: name}
}

func (a BoneAddress) String() string {
	return fmt.Sprintf("%d/%d/%s", a.Skeleton, a.Partial, a.Name)
}
