package nodenet

// SetSensorsAndActuatorFeedbackToValues writes directly into GEN elements
// bypassing the World adapter — used by tests and by callers that drive
// sensors/actuators without a live world.Adapter. sensors maps datasource
// keys to values; actuatorFeedback maps datatarget keys to values written
// into every actor bound to that target (feedback, not the actor's own
// reading — see ReadActuators for the actor-to-world direction).
func (n *Nodenet) SetSensorsAndActuatorFeedbackToValues(sensors map[string]float64, actuatorFeedback map[string]float64) {
	n.netlock.Lock()
	defer n.netlock.Unlock()

	for key, v := range sensors {
		for _, id := range n.sensorMap[key] {
			offset := n.Arena.AllocatedNodeOffsets[id]
			n.Arena.A[offset] = v
		}
	}
	for key, v := range actuatorFeedback {
		for _, id := range n.actorMap[key] {
			offset := n.Arena.AllocatedNodeOffsets[id]
			n.Arena.A[offset] = v
		}
	}
}

// ReadActuators sums each datatarget's actor GEN activations and returns
// them, without touching the World adapter. This is the same reduction
// Step performs internally before calling World.SetDataTarget.
func (n *Nodenet) ReadActuators() map[string]float64 {
	n.netlock.Lock()
	defer n.netlock.Unlock()

	out := make(map[string]float64, len(n.actorMap))
	for key, ids := range n.actorMap {
		var sum float64
		for _, id := range ids {
			offset := n.Arena.AllocatedNodeOffsets[id]
			sum += float64(n.Arena.A[offset])
		}
		out[key] = sum
	}
	return out
}
