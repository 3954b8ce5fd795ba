package omath

import "math"

// Sum ...
func Sum(nums []float64) (result float64) {
	for _, v := range nums {
		result += v
	}
	return result
}

// Mean ...
func Mean(nums []float64) float64 {
	count := float64(len(nums))
	if count == 0 {
		return 0
	}
	return Sum(nums) / count
}

// Variance ...
func Variance(nums []float64) (variance float64) {
	count := float64(len(nums))
	if count == 0 {
		return 0.0
	}
	mean := Mean(nums)
	for _, number := range nums {
		variance += (number - mean) * (number - mean)
	}
	return variance / count
}

// StandardDeviation ...
func StandardDeviation(nums []float64) float64 {
	return math.Sqrt(Variance(nums))
}

// MinMax returns the smallest and largest values of nums, or zeroes for an empty slice.
func MinMax(nums []float64) (min, max float64) {
	if len(nums) == 0 {
		return 0, 0
	}
	min, max = nums[0], nums[0]
	for _, v := range nums[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}
