package services

import (
	"github.com/mroshb/dice_game/internal/models"
	"github.com/mroshb/dice_game/pkg/utils"
)

// Dice holds one draw of three dice.
type Dice [models.DiceCount]int

// Total is the sum of the three faces.
func (d Dice) Total() int {
	sum := 0
	for _, v := range d {
		sum += v
	}
	return sum
}

// DiceRoller draws three independent faces in [1, 6].
type DiceRoller interface {
	Roll() (Dice, error)
}

// CryptoRoller draws from crypto/rand.
type CryptoRoller struct{}

func (CryptoRoller) Roll() (Dice, error) {
	var d Dice
	for i := range d {
		v, err := utils.RandomIntInclusive(1, models.DieFaces)
		if err != nil {
			return Dice{}, err
		}
		d[i] = v
	}
	return d, nil
}

// FixedRoller always returns the same dice.
type FixedRoller Dice

func (f FixedRoller) Roll() (Dice, error) {
	return Dice(f), nil
}
