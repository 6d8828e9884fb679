package xva

import "math"

// CVA 거래상대방 부도에 따른 기대손실
// Σ_{i=1..n} (1-R)·EPE[i]·(S(t_{i-1}) - S(t_i))·DF[i], 0번째 시점은 기여 없음
func CVA(epe []float64, hazardRate, recoveryRate float64, discountFactors []float64, dt float64) (float64, error) {
	if err := validateHazard("hazard_rate", hazardRate); err != nil {
		return 0, err
	}
	return creditAdjustment("epe", epe, hazardRate, recoveryRate, discountFactors, dt)
}

// DVA 자기 부도에 따른 기대이익
// ENE와 자기 hazard 사용, 회수율은 거래상대방 것을 그대로 사용 (단순화 유지)
func DVA(ene []float64, ownHazardRate, recoveryRate float64, discountFactors []float64, dt float64) (float64, error) {
	if err := validateHazard("own_hazard_rate", ownHazardRate); err != nil {
		return 0, err
	}
	return creditAdjustment("ene", ene, ownHazardRate, recoveryRate, discountFactors, dt)
}

func creditAdjustment(name string, exposure []float64, hazard, recovery float64, discountFactors []float64, dt float64) (float64, error) {
	if len(exposure) != len(discountFactors) {
		return 0, shapeMismatch(name, len(exposure), len(discountFactors))
	}
	if err := validateRecovery(recovery); err != nil {
		return 0, err
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0, invalidParam("dt", dt, "must be > 0")
	}

	lgd := 1 - recovery

	var total float64
	for i := 1; i < len(exposure); i++ {
		dp := math.Exp(-hazard*float64(i-1)*dt) - math.Exp(-hazard*float64(i)*dt)
		total += lgd * exposure[i] * dp * discountFactors[i]
	}

	return total, nil
}
